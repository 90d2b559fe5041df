// Package leagues provides the catalogue of leagues and clubs offered when
// picking what the trivia questions are about.
package leagues

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed leagues.yaml
var embeddedCatalogue []byte

// League is one competition and a selection of its clubs.
type League struct {
	Name    string   `yaml:"name"`
	Country string   `yaml:"country"`
	Clubs   []string `yaml:"clubs"`
}

// Catalogue is an ordered list of leagues. The first entry is the default.
type Catalogue struct {
	leagues []League
	byName  map[string]int
}

var builtin = sync.OnceValues(func() (*Catalogue, error) {
	return Parse(embeddedCatalogue)
})

// Builtin returns the catalogue compiled into the binary.
func Builtin() (*Catalogue, error) {
	return builtin()
}

// LoadFile reads a catalogue from a YAML file in the builtin format.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read league catalogue: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and checks a YAML catalogue. League names must be unique
// and non-empty, and every league needs at least one club.
func Parse(data []byte) (*Catalogue, error) {
	var leagues []League
	if err := yaml.Unmarshal(data, &leagues); err != nil {
		return nil, fmt.Errorf("decode league catalogue: %w", err)
	}
	if len(leagues) == 0 {
		return nil, errors.New("league catalogue is empty")
	}

	c := &Catalogue{byName: make(map[string]int, len(leagues))}
	for i, l := range leagues {
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			return nil, fmt.Errorf("league %d has no name", i+1)
		}
		if _, dup := c.byName[l.Name]; dup {
			return nil, fmt.Errorf("league %q listed twice", l.Name)
		}

		clubs := make([]string, 0, len(l.Clubs))
		for _, club := range l.Clubs {
			if club = strings.TrimSpace(club); club != "" && !slices.Contains(clubs, club) {
				clubs = append(clubs, club)
			}
		}
		if len(clubs) == 0 {
			return nil, fmt.Errorf("league %q has no clubs", l.Name)
		}
		l.Clubs = clubs

		c.byName[l.Name] = len(c.leagues)
		c.leagues = append(c.leagues, l)
	}
	return c, nil
}

// Default returns the name of the first league.
func (c *Catalogue) Default() string {
	return c.leagues[0].Name
}

// Names lists league names in catalogue order.
func (c *Catalogue) Names() []string {
	names := make([]string, len(c.leagues))
	for i, l := range c.leagues {
		names[i] = l.Name
	}
	return names
}

// Valid reports whether name is a league in the catalogue.
func (c *Catalogue) Valid(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Get returns the named league.
func (c *Catalogue) Get(name string) (League, bool) {
	i, ok := c.byName[name]
	if !ok {
		return League{}, false
	}
	l := c.leagues[i]
	l.Clubs = slices.Clone(l.Clubs)
	return l, true
}

// Teams returns the clubs of the named league, or nil if it is unknown.
func (c *Catalogue) Teams(name string) []string {
	l, ok := c.Get(name)
	if !ok {
		return nil
	}
	return l.Clubs
}

// Suggest returns up to limit clubs from league whose names start with
// prefix, ignoring case. An empty prefix matches every club.
func (c *Catalogue) Suggest(league, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, club := range c.Teams(league) {
		if limit > 0 && len(out) == limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(club), prefix) {
			out = append(out, club)
		}
	}
	return out
}

// Next returns the league after name, wrapping around. Unknown names map
// to the default league.
func (c *Catalogue) Next(name string) string {
	i, ok := c.byName[name]
	if !ok {
		return c.Default()
	}
	return c.leagues[(i+1)%len(c.leagues)].Name
}
