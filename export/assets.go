package export

import (
	"errors"
	"io"
	"io/fs"
	"path"

	"github.com/ancientlore/quire/builderr"
	"github.com/ancientlore/quire/work"
)

// copyJob is a folder to mirror and where it goes.
type copyJob struct {
	src string // in Assets
	dst string // in Out
}

// mirrorAssets copies every file of Assets into Out, keeping the folder
// structure. Folders are walked with an explicit stack; the files of each
// folder are copied concurrently and joined before the next folder.
// A missing assets folder is not an error. An asset that would overwrite a
// file in rendered, keyed by output path, is a Copy error.
func (e *Exporter) mirrorAssets(rendered map[string]string) error {
	if e.Assets == nil {
		return nil
	}
	if _, err := fs.Stat(e.Assets, "."); errors.Is(err, fs.ErrNotExist) {
		e.Log.Info("No assets folder, skipping asset copy")
		return nil
	} else if err != nil {
		return builderr.New(builderr.ReadDirectory, "assets", err)
	}

	copied := 0
	stack := []copyJob{{src: ".", dst: "."}}
	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := e.Out.MkdirAll(job.dst); err != nil {
			return builderr.New(builderr.CreateDirectory, job.dst, err)
		}
		entries, err := fs.ReadDir(e.Assets, job.src)
		if err != nil {
			return builderr.New(builderr.ReadDirectory, path.Join("assets", job.src), err)
		}
		for _, entry := range entries {
			dst := path.Join(job.dst, entry.Name())
			if source, ok := rendered[dst]; ok && !entry.IsDir() {
				return &builderr.Error{
					Kind:   builderr.Copy,
					Path:   path.Join("assets", job.src, entry.Name()),
					Dest:   dst,
					Detail: "rendered from " + source,
					Err:    fs.ErrExist,
				}
			}
		}
		g := work.NewGroup(e.Workers)
		for _, entry := range entries {
			src, dst := path.Join(job.src, entry.Name()), path.Join(job.dst, entry.Name())
			if entry.IsDir() {
				stack = append(stack, copyJob{src: src, dst: dst})
				continue
			}
			copied++
			g.Go(src, func() error {
				return e.copyAsset(src, dst)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	e.Log.Info("Copied assets", "files", copied)
	return nil
}

func (e *Exporter) copyAsset(src, dst string) (err error) {
	defer func() {
		if err != nil {
			err = &builderr.Error{Kind: builderr.Copy, Path: path.Join("assets", src), Dest: dst, Err: err}
		}
	}()
	in, err := e.Assets.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := e.Out.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if err = errors.Join(err, out.Close()); err != nil {
		return err
	}
	e.Recorder.IncAssetsCopied()
	return nil
}
