package apiclient

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Form is a multipart/form-data payload built field by field.
type Form struct {
	parts []formPart
}

type formPart struct {
	name     string
	value    string
	filename string
	content  io.Reader
}

func NewForm() *Form { return &Form{} }

func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// AddFile attaches content under name with the given file name.
func (f *Form) AddFile(name, filename string, content io.Reader) *Form {
	f.parts = append(f.parts, formPart{name: name, filename: filename, content: content})
	return f
}

// Has reports whether a part with the given name was added.
func (f *Form) Has(name string) bool {
	for _, p := range f.parts {
		if p.name == name {
			return true
		}
	}
	return false
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range f.parts {
		if p.content == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		fw, err := w.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(fw, p.content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
