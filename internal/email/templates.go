package email

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"
)

//go:embed templates/*
var defaultTemplates embed.FS

// TemplateManager хранит пары html/text шаблонов по имени
type TemplateManager struct {
	html  map[string]*htmltemplate.Template
	text  map[string]*texttemplate.Template
	mutex sync.RWMutex
}

// NewTemplateManager создает менеджер и загружает встроенные шаблоны
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		html: make(map[string]*htmltemplate.Template),
		text: make(map[string]*texttemplate.Template),
	}
	if err := tm.LoadFS(defaultTemplates, "templates"); err != nil {
		return nil, err
	}
	return tm, nil
}

// Render возвращает (text, html) для шаблона
func (tm *TemplateManager) Render(name string, data TemplateData) (string, string, error) {
	tm.mutex.RLock()
	htmlTpl, okHTML := tm.html[name]
	textTpl, okText := tm.text[name]
	tm.mutex.RUnlock()

	if !okHTML || !okText {
		return "", "", fmt.Errorf("template not found: %s", name)
	}

	var textBuf, htmlBuf strings.Builder
	if err := textTpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute text template %s: %w", name, err)
	}
	if err := htmlTpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute html template %s: %w", name, err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}

// AddTemplate добавляет шаблон; kind - "html" или "txt"
func (tm *TemplateManager) AddTemplate(name, kind, body string) error {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	switch kind {
	case "html":
		tpl, err := htmltemplate.New(name).Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse template %s.html: %w", name, err)
		}
		tm.html[name] = tpl
	case "txt":
		tpl, err := texttemplate.New(name).Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse template %s.txt: %w", name, err)
		}
		tm.text[name] = tpl
	default:
		return fmt.Errorf("unknown template kind %q", kind)
	}
	return nil
}

// LoadFS загружает *.html и *.txt из файловой системы
func (tm *TemplateManager) LoadFS(fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.TrimPrefix(path.Ext(p), ".")
		if ext != "html" && ext != "txt" {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		return tm.AddTemplate(name, ext, string(content))
	})
}
