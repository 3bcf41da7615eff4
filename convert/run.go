package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"hdc/archive"
	"hdc/config"
	"hdc/htmldoc"
	"hdc/state"
)

// htmlExts are the input extensions recognized when walking directories and
// archives.
var htmlExts = []string{".html", ".htm"}

// Run is the "convert" subcommand action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")
	if cmd.Bool("fix-zip") {
		env.Cfg.Document.FixZip = true
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, src, dst, log)
}

// process determines the input type (directory, archive, or single file) and
// dispatches accordingly.
func process(ctx context.Context, env *state.LocalEnv, src, dst string, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	conv := New(&env.Cfg.Document, log)

	if fi.Mode().IsDir() {
		return processDir(ctx, env, conv, src, dst, log)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if strings.EqualFold(filepath.Ext(src), ".zip") {
		return processArchive(ctx, env, conv, src, dst, log)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read input file: %w", err)
	}
	return processPage(env, conv, data, filepath.Base(src), dst, log)
}

// processDir walks the directory tree converting every page file in it,
// keeping the relative directory structure under dst.
func processDir(ctx context.Context, env *state.LocalEnv, conv *Converter, dir, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() || !isHTMLName(path) {
			return nil
		}

		count++

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("Unable to read file", zap.String("file", path), zap.Error(err))
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processPage(env, conv, data, rel, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processArchive converts every page file inside a zip archive.
func processArchive(ctx context.Context, env *state.LocalEnv, conv *Converter, path, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	err = archive.Walk(path, htmlExts, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		rc, err := f.Open()
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", arc), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			log.Warn("Skipping file in archive",
				zap.String("archive", arc), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if err := processPage(env, conv, data, f.FileHeader.Name, dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("path", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

// processPage converts one page and writes the result under dst, deriving the
// output name from the source name.
func processPage(env *state.LocalEnv, conv *Converter, data []byte, srcName, dst string, log *zap.Logger) error {
	content, err := htmldoc.Decode(data)
	if err != nil {
		return err
	}

	out, err := conv.Convert(content)
	if err != nil {
		return err
	}

	outPath := filepath.Join(dst, OutputName(srcName, env.Cfg.Document.FileNameTransliterate))
	if err := os.MkdirAll(filepath.Dir(outPath), 0700); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if !env.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("destination file already exists (%s), use --overwrite", outPath)
		}
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	log.Info("Document created", zap.String("file", outPath), zap.Int("size", len(out)))
	return nil
}

// OutputName derives the output file name from a source name: the source
// extension is replaced with ".docx", unsafe characters are removed, and
// with transliterate set the base name is slugified.
func OutputName(srcName string, transliterate bool) string {
	dir, base := filepath.Split(filepath.ToSlash(srcName))
	for _, ext := range htmlExts {
		if strings.EqualFold(filepath.Ext(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	base = config.CleanFileName(base)
	if transliterate {
		if s := slug.Make(base); s != "" {
			base = s
		}
	}
	return filepath.Join(filepath.FromSlash(dir), base+".docx")
}

func isHTMLName(name string) bool {
	e := strings.ToLower(filepath.Ext(name))
	for _, ext := range htmlExts {
		if e == ext {
			return true
		}
	}
	return false
}
