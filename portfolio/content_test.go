package portfolio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/folio/engine/core"
)

func TestDefaultContent(t *testing.T) {
	c := mustContent(t)
	if c.Profile.Name != "Biswajeet Behera" {
		t.Errorf("Expected profile name, got %q", c.Profile.Name)
	}
	if len(c.Education) != 3 {
		t.Errorf("Expected 3 education entries, got %d", len(c.Education))
	}
	if len(c.Experience) != 3 {
		t.Errorf("Expected 3 jobs, got %d", len(c.Experience))
	}
	if !c.Experience[0].Current || c.Experience[1].Current {
		t.Errorf("Expected only the first job to be current")
	}
	if len(c.Projects) != 3 {
		t.Errorf("Expected 3 projects, got %d", len(c.Projects))
	}
	if len(c.Achievements) != 4 {
		t.Errorf("Expected 4 achievements, got %d", len(c.Achievements))
	}
	if len(c.Skills) != 4 || len(c.Coursework) != 2 {
		t.Errorf("Expected 4 skill and 2 coursework groups, got %d and %d", len(c.Skills), len(c.Coursework))
	}
}

func TestLoadContent(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadContent(filepath.Join(dir, "missing.toml"))
	if err != nil || c.Profile.Name != "Biswajeet Behera" {
		t.Errorf("Expected built-in content for a missing file, got %v", err)
	}

	custom := filepath.Join(dir, "content.toml")
	data := "[profile]\nname = \"Someone Else\"\n\n[[achievements]]\ntitle = \"Prize\"\nsubtitle = \"First\"\n"
	if err := os.WriteFile(custom, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadContent(custom)
	if err != nil {
		t.Fatalf("Expected custom content to load, got %v", err)
	}
	if c.Profile.Name != "Someone Else" || len(c.Achievements) != 1 {
		t.Errorf("Expected custom content, got %+v", c.Profile)
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[profile\nname = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadContent(broken); err == nil {
		t.Errorf("Expected a parse error")
	}

	nameless := filepath.Join(dir, "nameless.toml")
	if err := os.WriteFile(nameless, []byte("[footer]\ntext = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadContent(nameless); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
