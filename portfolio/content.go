package portfolio

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/folio/engine/core"
)

//go:embed content.toml
var defaultContent []byte

type Profile struct {
	Name     string `toml:"name"`
	Role     string `toml:"role"`
	Tagline  string `toml:"tagline"`
	Email    string `toml:"email"`
	GitHub   string `toml:"github"`
	LinkedIn string `toml:"linkedin"`
}

type Education struct {
	Institution string `toml:"institution"`
	Degree      string `toml:"degree"`
	Period      string `toml:"period"`
	Score       string `toml:"score"`
}

// Group is a titled list, used for skills and coursework.
type Group struct {
	Category string   `toml:"category"`
	Items    []string `toml:"items"`
}

type Job struct {
	Title       string   `toml:"title"`
	Company     string   `toml:"company"`
	Location    string   `toml:"location"`
	Period      string   `toml:"period"`
	Current     bool     `toml:"current"`
	Description []string `toml:"description"`
}

type Project struct {
	Title       string   `toml:"title"`
	Period      string   `toml:"period"`
	Tech        []string `toml:"tech"`
	GitHub      string   `toml:"github"`
	Link        string   `toml:"link"`
	Featured    bool     `toml:"featured"`
	Description []string `toml:"description"`
}

type Achievement struct {
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
}

type Footer struct {
	Text string `toml:"text"`
}

// Content holds every text table the page shows.
type Content struct {
	Profile      Profile       `toml:"profile"`
	Education    []Education   `toml:"education"`
	Skills       []Group       `toml:"skills"`
	Coursework   []Group       `toml:"coursework"`
	Experience   []Job         `toml:"experience"`
	Projects     []Project     `toml:"projects"`
	Achievements []Achievement `toml:"achievements"`
	Footer       Footer        `toml:"footer"`
}

// DefaultContent decodes the built-in content file.
func DefaultContent() (*Content, error) {
	return ParseContent(defaultContent)
}

func ParseContent(data []byte) (*Content, error) {
	c := &Content{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if len(c.Profile.Name) == 0 {
		return nil, fmt.Errorf("content has no profile name: %w", core.ErrInvalidConfig)
	}
	return c, nil
}

// LoadContent reads path, falling back to the built-in content when path is
// empty or does not exist.
func LoadContent(path string) (*Content, error) {
	if len(path) == 0 {
		return DefaultContent()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("content file %s not found, using built-in content", path)
		return DefaultContent()
	}
	if err != nil {
		return nil, err
	}
	return ParseContent(data)
}
