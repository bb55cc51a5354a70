package ti3

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Encode writes the CGATS serialization of doc to w.
func Encode(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, strings.Join(doc.lines(), "\n")+"\n")
	return err
}

// Write serializes doc and publishes it at path atomically: the bytes
// land in a temp file in the destination directory and are renamed over
// the target only after a successful flush and fsync. Readers never
// observe a partial file.
func Write(doc *Document, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ti3-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0o644)

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write ti3 data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("flush ti3 data: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync ti3 data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("publish ti3 file: %w", err)
	}
	syncDir(dir)
	return nil
}

// syncDir is best-effort durability for the rename itself.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
