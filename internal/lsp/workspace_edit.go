package lsp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Resource-operation kinds carried in WorkspaceEdit.documentChanges.
const (
	resourceOpCreate = "create"
	resourceOpRename = "rename"
	resourceOpDelete = "delete"
)

// CreateFileOptions control create-file semantics.
type CreateFileOptions struct {
	Overwrite      bool `json:"overwrite,omitempty"`
	IgnoreIfExists bool `json:"ignoreIfExists,omitempty"`
}

// RenameFileOptions control rename-file semantics.
type RenameFileOptions struct {
	Overwrite      bool `json:"overwrite,omitempty"`
	IgnoreIfExists bool `json:"ignoreIfExists,omitempty"`
}

// DeleteFileOptions control delete-file semantics.
type DeleteFileOptions struct {
	Recursive         bool `json:"recursive,omitempty"`
	IgnoreIfNotExists bool `json:"ignoreIfNotExists,omitempty"`
}

// DocumentChange is one decoded entry of WorkspaceEdit.documentChanges:
// either a per-document edit batch or exactly one resource operation.
type DocumentChange struct {
	// TextDocument + Edits are set for a textDocumentEdit entry.
	TextDocument DocumentURI
	Edits        []TextEdit

	// Kind is create/rename/delete for a resource op, empty otherwise.
	Kind      string
	URI       DocumentURI
	NewURI    DocumentURI // rename only
	CreateOpt CreateFileOptions
	RenameOpt RenameFileOptions
	DeleteOpt DeleteFileOptions
}

// DecodeDocumentChanges lowers the loosely-typed documentChanges array
// (maps after JSON decoding) into typed DocumentChange values,
// preserving order — resource ops and edit batches interleave and the
// protocol requires applying them in sequence.
func DecodeDocumentChanges(edit WorkspaceEdit) []DocumentChange {
	out := make([]DocumentChange, 0, len(edit.DocumentChanges))
	for _, raw := range edit.DocumentChanges {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		kind, _ := m["kind"].(string)
		switch kind {
		case resourceOpCreate:
			dc := DocumentChange{Kind: kind, URI: uriField(m, "uri")}
			dc.CreateOpt.Overwrite, dc.CreateOpt.IgnoreIfExists = overwriteOpts(m)
			out = append(out, dc)
		case resourceOpRename:
			dc := DocumentChange{Kind: kind, URI: uriField(m, "oldUri"), NewURI: uriField(m, "newUri")}
			dc.RenameOpt.Overwrite, dc.RenameOpt.IgnoreIfExists = overwriteOpts(m)
			out = append(out, dc)
		case resourceOpDelete:
			dc := DocumentChange{Kind: kind, URI: uriField(m, "uri")}
			if opts, ok := m["options"].(map[string]any); ok {
				dc.DeleteOpt.Recursive, _ = opts["recursive"].(bool)
				dc.DeleteOpt.IgnoreIfNotExists, _ = opts["ignoreIfNotExists"].(bool)
			}
			out = append(out, dc)
		default:
			dc := DocumentChange{}
			if td, ok := m["textDocument"].(map[string]any); ok {
				if uri, ok := td["uri"].(string); ok {
					dc.TextDocument = DocumentURI(uri)
				}
			}
			if edits, ok := m["edits"].([]any); ok {
				for _, e := range edits {
					em, ok := e.(map[string]any)
					if !ok {
						continue
					}
					dc.Edits = append(dc.Edits, TextEdit{
						Range:   rangeFromMap(em["range"]),
						NewText: stringField(em, "newText"),
					})
				}
			}
			if dc.TextDocument != "" {
				out = append(out, dc)
			}
		}
	}
	return out
}

func uriField(m map[string]any, key string) DocumentURI {
	s, _ := m[key].(string)
	return DocumentURI(s)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func overwriteOpts(m map[string]any) (overwrite, ignoreIfExists bool) {
	opts, ok := m["options"].(map[string]any)
	if !ok {
		return false, false
	}
	overwrite, _ = opts["overwrite"].(bool)
	ignoreIfExists, _ = opts["ignoreIfExists"].(bool)
	return overwrite, ignoreIfExists
}

func rangeFromMap(v any) Range {
	m, ok := v.(map[string]any)
	if !ok {
		return Range{}
	}
	return Range{Start: positionFromMap(m["start"]), End: positionFromMap(m["end"])}
}

func positionFromMap(v any) Position {
	m, ok := v.(map[string]any)
	if !ok {
		return Position{}
	}
	line, _ := m["line"].(float64)
	char, _ := m["character"].(float64)
	return Position{Line: int(line), Character: int(char)}
}

// ApplyTextEdits applies edits to content, returning the new content.
// Edits are applied bottom-to-top so earlier edits cannot shift the
// offsets of later ones. A pure insertion landing between a CR and LF
// is moved before the CR so CRLF line breaks stay intact.
func ApplyTextEdits(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Range.Start, sorted[j].Range.Start
		if a.Line != b.Line {
			return a.Line > b.Line
		}
		return a.Character > b.Character
	})

	for _, e := range sorted {
		pc := NewPositionConverter(content)
		start := pc.PositionToByteOffset(e.Range.Start)
		end := pc.PositionToByteOffset(e.Range.End)
		if end < start {
			start, end = end, start
		}
		if start == end {
			start = adjustInsertionForCRLF(content, start)
			end = start
		}
		content = content[:start] + e.NewText + content[end:]
	}
	return content
}

// adjustInsertionForCRLF moves an insertion offset sitting between a
// CR and its LF back before the CR.
func adjustInsertionForCRLF(content string, offset int) int {
	if offset > 0 && offset < len(content) && content[offset] == '\n' && content[offset-1] == '\r' {
		return offset - 1
	}
	return offset
}

// ApplyWorkspaceEditFiles applies a workspace edit directly to the
// filesystem: per-file text edits from Changes, then the ordered
// documentChanges sequence (text edits and create/rename/delete
// resource ops). Returns the paths modified. The first failing step
// aborts the remainder; earlier steps are not rolled back, matching
// LSP's best-effort applyEdit semantics.
func ApplyWorkspaceEditFiles(edit WorkspaceEdit) ([]string, error) {
	var modified []string

	// Deterministic order over the Changes map.
	uris := make([]DocumentURI, 0, len(edit.Changes))
	for uri := range edit.Changes {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })

	for _, uri := range uris {
		path := URIToFilePath(uri)
		if err := applyEditsToFile(path, edit.Changes[uri]); err != nil {
			return modified, err
		}
		modified = append(modified, path)
	}

	for _, dc := range DecodeDocumentChanges(edit) {
		switch dc.Kind {
		case resourceOpCreate:
			path := URIToFilePath(dc.URI)
			if err := applyCreateFile(path, dc.CreateOpt); err != nil {
				return modified, err
			}
			modified = append(modified, path)
		case resourceOpRename:
			oldPath, newPath := URIToFilePath(dc.URI), URIToFilePath(dc.NewURI)
			if err := applyRenameFile(oldPath, newPath, dc.RenameOpt); err != nil {
				return modified, err
			}
			modified = append(modified, newPath)
		case resourceOpDelete:
			path := URIToFilePath(dc.URI)
			if err := applyDeleteFile(path, dc.DeleteOpt); err != nil {
				return modified, err
			}
			modified = append(modified, path)
		default:
			path := URIToFilePath(dc.TextDocument)
			if err := applyEditsToFile(path, dc.Edits); err != nil {
				return modified, err
			}
			modified = append(modified, path)
		}
	}

	return modified, nil
}

func applyEditsToFile(path string, edits []TextEdit) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	updated := ApplyTextEdits(string(data), edits)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// applyCreateFile writes an empty file at path. An existing file is an
// error unless overwrite or ignoreIfExists is set; with ignoreIfExists
// (and not overwrite) the existing content is left alone.
func applyCreateFile(path string, opts CreateFileOptions) error {
	if _, err := os.Stat(path); err == nil {
		if opts.IgnoreIfExists && !opts.Overwrite {
			return nil
		}
		if !opts.Overwrite {
			return fmt.Errorf("create %s: %w", path, os.ErrExist)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// applyRenameFile moves oldPath to newPath. Rename across devices
// falls back to copy-then-remove, recursing for directories.
func applyRenameFile(oldPath, newPath string, opts RenameFileOptions) error {
	if _, err := os.Stat(newPath); err == nil {
		switch {
		case opts.Overwrite:
			if err := os.RemoveAll(newPath); err != nil {
				return fmt.Errorf("rename %s: %w", oldPath, err)
			}
		case opts.IgnoreIfExists:
			return nil
		default:
			return fmt.Errorf("rename %s to %s: %w", oldPath, newPath, os.ErrExist)
		}
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	if err := os.Rename(oldPath, newPath); err == nil {
		return nil
	}
	if err := copyRecursive(oldPath, newPath); err != nil {
		return fmt.Errorf("rename %s to %s: %w", oldPath, newPath, err)
	}
	if err := os.RemoveAll(oldPath); err != nil {
		return fmt.Errorf("rename %s: removing source: %w", oldPath, err)
	}
	return nil
}

// applyDeleteFile removes path. A missing path succeeds only with
// ignoreIfNotExists; a non-empty directory requires recursive.
func applyDeleteFile(path string, opts DeleteFileOptions) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && opts.IgnoreIfNotExists {
			return nil
		}
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if info.IsDir() && opts.Recursive {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func copyRecursive(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, ent := range entries {
		if err := copyRecursive(filepath.Join(src, ent.Name()), filepath.Join(dst, ent.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
