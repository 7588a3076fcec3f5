package fileops

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// TemplateExt is stripped from a source name to derive the destination when none is given.
const TemplateExt = ".tmpl"

// CopyOptions configure CopyFile.
type CopyOptions struct {
	WriteFlags

	// Data is the template data. Sources are always rendered as templates, so a source without actions is copied verbatim.
	Data any

	// Preserve copies the source's permissions and modification time to the destination when it is written.
	Preserve bool

	// Transform, if set, post-processes the rendered content before it is written.
	Transform func(content string) (string, error)
}

// CopyFile renders src as a text/template (with sprig functions plus toYaml and fromYaml) and writes the result to dst through CreateFile. An empty
// dst is src without a trailing ".tmpl". If dst is an existing directory, the file is placed inside it under the source's (de-templated) name.
func (t *Toolkit) CopyFile(src, dst string, opts CopyOptions) (Outcome, error) {
	raw, err := t.readExisting(src)
	if err != nil {
		return NotOverwritten, err
	}

	dst, err = t.copyDestination(src, dst)
	if err != nil {
		return NotOverwritten, err
	}

	content, err := renderTemplate(filepath.Base(src), string(raw), opts.Data)
	if err != nil {
		return NotOverwritten, fmt.Errorf("render %s: %w", src, err)
	}
	if opts.Transform != nil {
		content, err = opts.Transform(content)
		if err != nil {
			return NotOverwritten, fmt.Errorf("transform %s: %w", src, err)
		}
	}

	outcome, err := t.CreateFile(dst, []byte(content), opts.WriteFlags)
	if err != nil {
		return outcome, err
	}
	if opts.Preserve && outcome.Wrote() && !opts.Noop {
		if err := t.copyMetadata(src, dst); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

func (t *Toolkit) copyDestination(src, dst string) (string, error) {
	name := strings.TrimSuffix(src, TemplateExt)
	if dst == "" {
		return name, nil
	}
	isDir, err := afero.IsDir(t.fs, dst)
	if err != nil || !isDir {
		// A missing destination is a file to create.
		return dst, nil
	}
	return filepath.Join(dst, filepath.Base(name)), nil
}

func (t *Toolkit) copyMetadata(src, dst string) error {
	info, err := t.fs.Stat(src)
	if err != nil {
		return err
	}
	if err := t.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode of %s: %w", dst, err)
	}
	if err := t.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserve times of %s: %w", dst, err)
	}
	return nil
}

// templateFuncs returns sprig's text functions plus YAML helpers.
func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["toYaml"] = func(v any) (string, error) {
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	}
	funcs["fromYaml"] = func(s string) (map[string]any, error) {
		m := map[string]any{}
		if err := yaml.Unmarshal([]byte(s), &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	return funcs
}

func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
