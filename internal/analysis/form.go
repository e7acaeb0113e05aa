// internal/analysis/form.go
package analysis

import "path/filepath"

// FormField is a plain text form value.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a file attachment. Name defaults to the base of Path.
type FormFile struct {
	Field string
	Path  string
	Name  string
}

// Filename returns the name sent in the multipart header.
func (f FormFile) Filename() string {
	if f.Name != "" {
		return f.Name
	}
	return filepath.Base(f.Path)
}

// Form describes a multipart submission in field order.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// Value returns the first field with the given name.
func (f Form) Value(name string) (string, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// File returns the attachment for the given field.
func (f Form) File(field string) (FormFile, bool) {
	for _, file := range f.Files {
		if file.Field == field {
			return file, true
		}
	}
	return FormFile{}, false
}

func (f *Form) addFile(field, path string) {
	if path == "" {
		return
	}
	f.Files = append(f.Files, FormFile{Field: field, Path: path})
}

func (f *Form) addField(name, value string) {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
}

// NewPairForm builds the original/modified submission used by XRD, IR and BET.
func NewPairForm(original, modified, explanation, query string) Form {
	var f Form
	f.addFile("original_file", original)
	f.addFile("modified_file", modified)
	f.addField("explanation", explanation)
	f.addField("ai_query", query)
	return f
}

// NewXRDForm builds an XRD submission.
func NewXRDForm(original, modified, explanation, query string) Form {
	return NewPairForm(original, modified, explanation, query)
}

// NewIRForm builds an IR submission.
func NewIRForm(original, modified, explanation, query string) Form {
	return NewPairForm(original, modified, explanation, query)
}

// NewBETForm builds a BET submission.
func NewBETForm(original, modified, explanation, query string) Form {
	return NewPairForm(original, modified, explanation, query)
}

// NewTGAForm builds a TGA submission.
func NewTGAForm(tgaFile, query string) Form {
	var f Form
	f.addFile("tga_file", tgaFile)
	f.addField("ai_query", query)
	return f
}

// CombinedFiles lists the optional inputs of a combined analysis.
type CombinedFiles struct {
	OriginalXRD string
	ModifiedXRD string
	OriginalIR  string
	ModifiedIR  string
	OriginalBET string
	ModifiedBET string
	TGA         string
}

// NewCombinedForm attaches only the files that were supplied.
func NewCombinedForm(files CombinedFiles, query string) Form {
	var f Form
	f.addFile("original_xrd_file", files.OriginalXRD)
	f.addFile("modified_xrd_file", files.ModifiedXRD)
	f.addFile("original_ir_file", files.OriginalIR)
	f.addFile("modified_ir_file", files.ModifiedIR)
	f.addFile("original_bet_file", files.OriginalBET)
	f.addFile("modified_bet_file", files.ModifiedBET)
	f.addFile("tga_file", files.TGA)
	f.addField("ai_query", query)
	return f
}

// FileFields returns the multipart file field names accepted for a type.
func FileFields(t Type) []string {
	switch t {
	case TGA:
		return []string{"tga_file"}
	case Combined:
		return []string{
			"original_xrd_file", "modified_xrd_file",
			"original_ir_file", "modified_ir_file",
			"original_bet_file", "modified_bet_file",
			"tga_file",
		}
	default:
		return []string{"original_file", "modified_file"}
	}
}

// TextFields returns the multipart text field names accepted for a type.
func TextFields(t Type) []string {
	switch t {
	case TGA, Combined:
		return []string{"ai_query"}
	default:
		return []string{"explanation", "ai_query"}
	}
}
