package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	w.Close()
	zipFile.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"pages/index.html": "<p>index</p>",
		"pages/about.HTM":  "<p>about</p>",
		"notes/plan.txt":   "plan",
		"styles/site.css":  ".x{}",
	})

	t.Run("html extensions", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, []string{".html", ".htm"}, func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		expected := map[string]bool{
			"pages/index.html": true,
			"pages/about.HTM":  true,
		}
		if len(visited) != len(expected) {
			t.Errorf("visited %d files, want %d", len(visited), len(expected))
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("no matching extension", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, []string{".md"}, func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files, want 0", visited)
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, []string{".html"}, func(archive string, file *zip.File) error {
			return expectedErr
		})
		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", []string{".html"}, func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		err := Walk(invalidZip, []string{".html"}, func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)

	dirHeader := &zip.FileHeader{Name: "mydir.html/"}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	fw, err := w.Create("mydir.html/file.html")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<p/>"))
	w.Close()
	zipFile.Close()

	var visited []string
	err = Walk(zipPath, []string{".html"}, func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "mydir.html/file.html" {
		t.Errorf("visited %v, want only mydir.html/file.html", visited)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"a.html": "a", "b.html": "b", "c.html": "c", "d.html": "d",
	})

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, []string{".html"}, func(archive string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := "<p>test content</p>"
	zipPath := writeZip(t, map[string]string{"page.html": content})

	err := Walk(zipPath, []string{".html"}, func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if buf.String() != content {
			t.Errorf("content = %s, want %s", buf.String(), content)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}
