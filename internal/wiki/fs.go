package wiki

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EraseAndCreateDir removes dir and everything in it, then recreates it empty
func EraseAndCreateDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to erase %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

func writeFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// linkOrCopy places a relative symlink to target at link, copying the file when
// the filesystem refuses symlinks. An existing entry at link is replaced.
func linkOrCopy(target, link string) error {
	rel, err := filepath.Rel(filepath.Dir(link), target)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("failed to replace %s: %w", link, err)
		}
	}
	if err := os.Symlink(rel, link); err == nil {
		return nil
	}

	// os.Create on a path that resolves to target would truncate it
	if sameFile(target, link) {
		return fmt.Errorf("refusing to copy %s onto itself", target)
	}

	src, err := os.Open(target)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(link)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func sameFile(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}

// page accumulates the lines of one wiki page
type page struct {
	b strings.Builder
}

func (p *page) line(format string, args ...any) {
	if len(args) == 0 {
		p.b.WriteString(format)
	} else {
		fmt.Fprintf(&p.b, format, args...)
	}
	p.b.WriteByte('\n')
}

func (p *page) blank() {
	p.b.WriteByte('\n')
}

func (p *page) raw(s string) {
	p.b.WriteString(s)
}

func (p *page) String() string {
	return p.b.String()
}
