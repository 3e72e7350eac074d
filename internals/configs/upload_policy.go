package configs

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldRule describes one multipart file field accepted by /api/submit.
type FieldRule struct {
	Name       string   `yaml:"name"`
	Required   bool     `yaml:"required"`
	MaxFiles   int      `yaml:"max_files"`
	Extensions []string `yaml:"extensions"`
}

type UploadPolicy struct {
	MaxFileMB int         `yaml:"max_file_mb"`
	Fields    []FieldRule `yaml:"fields"`

	maxFileBytes int64
}

var (
	docExts   = []string{".pdf", ".doc", ".docx"}
	imageExts = []string{".jpg", ".jpeg", ".png"}
)

// DefaultUploadPolicy is the policy used when no UPLOAD_POLICY_FILE is set.
func DefaultUploadPolicy(maxFileBytes int64) UploadPolicy {
	p := UploadPolicy{
		Fields: []FieldRule{
			{Name: "resume", Required: true, MaxFiles: 1, Extensions: docExts},
			{Name: "cover_letter", MaxFiles: 1, Extensions: docExts},
			{Name: "photo", MaxFiles: 1, Extensions: imageExts},
			{Name: "id_proof", MaxFiles: 1, Extensions: append([]string{".pdf"}, imageExts...)},
			{Name: "certificates", MaxFiles: 10, Extensions: append([]string{".pdf"}, imageExts...)},
		},
		maxFileBytes: maxFileBytes,
	}
	return p
}

// LoadUploadPolicy reads a YAML override. An empty path returns the defaults.
//
//	max_file_mb: 5
//	fields:
//	  - name: resume
//	    required: true
//	    max_files: 1
//	    extensions: [pdf, docx]
func LoadUploadPolicy(path string, maxFileBytes int64) (UploadPolicy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultUploadPolicy(maxFileBytes), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return UploadPolicy{}, fmt.Errorf("read upload policy %s: %w", path, err)
	}
	var p UploadPolicy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return UploadPolicy{}, fmt.Errorf("parse upload policy %s: %w", path, err)
	}
	p.maxFileBytes = maxFileBytes
	if p.MaxFileMB > 0 {
		p.maxFileBytes = int64(p.MaxFileMB) << 20
	}
	if err := p.normalize(); err != nil {
		return UploadPolicy{}, fmt.Errorf("upload policy %s: %w", path, err)
	}
	return p, nil
}

func (p *UploadPolicy) normalize() error {
	if len(p.Fields) == 0 {
		return fmt.Errorf("no file fields declared")
	}
	seen := map[string]bool{}
	for i := range p.Fields {
		f := &p.Fields[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return fmt.Errorf("field #%d has no name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q declared twice", f.Name)
		}
		seen[f.Name] = true
		if f.MaxFiles <= 0 {
			f.MaxFiles = 1
		}
		if len(f.Extensions) == 0 {
			return fmt.Errorf("field %q allows no extensions", f.Name)
		}
		for j, ext := range f.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			f.Extensions[j] = ext
		}
	}
	return nil
}

func (p UploadPolicy) MaxFileBytes() int64 { return p.maxFileBytes }

func (p UploadPolicy) Rule(name string) (FieldRule, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldRule{}, false
}

func (r FieldRule) Allows(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
