package importer

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ichigooo/workout-planner/internal/api"
	"github.com/ichigooo/workout-planner/internal/errors"
)

// Template is a shared workout template file.
type Template struct {
	Name     string            `yaml:"name,omitempty"`
	Workouts []TemplateWorkout `yaml:"workouts"`
}

// TemplateWorkout is one workout definition inside a template.
type TemplateWorkout struct {
	Name            string `yaml:"name"`
	Category        string `yaml:"category,omitempty"`
	DurationMinutes int    `yaml:"duration_minutes,omitempty"`
	Notes           string `yaml:"notes,omitempty"`
}

var titler = cases.Title(language.English)

// ToWorkout converts a template entry to a catalog workout. Template authors
// tend to write lowercase names; display names are title-cased on the way in.
func (tw TemplateWorkout) ToWorkout() api.Workout {
	return api.Workout{
		Name:            titler.String(tw.Name),
		Category:        tw.Category,
		DurationMinutes: tw.DurationMinutes,
		Notes:           tw.Notes,
	}
}

// ParseTemplate parses and validates template YAML.
func ParseTemplate(data []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, errors.TemplateInvalid("not valid YAML", err)
	}

	if len(tpl.Workouts) == 0 {
		return nil, errors.TemplateInvalid("no workouts defined", nil)
	}
	for i, w := range tpl.Workouts {
		if w.Name == "" {
			return nil, errors.TemplateInvalid(fmt.Sprintf("workout at index %d has no name", i), nil)
		}
	}
	return &tpl, nil
}

// TemplateFetcher retrieves a template file's content.
type TemplateFetcher interface {
	FetchTemplate(ctx context.Context, owner, repo, path string) (string, error)
}

// CatalogWriter creates workouts in the backend catalog.
type CatalogWriter interface {
	CreateWorkout(ctx context.Context, w api.Workout) (*api.Workout, error)
}

// Importer pulls a template and creates its workouts through the backend.
// Callers invalidate the catalog cache after a successful import.
type Importer struct {
	fetcher TemplateFetcher
	backend CatalogWriter
}

// New creates an Importer.
func New(fetcher TemplateFetcher, backend CatalogWriter) *Importer {
	return &Importer{fetcher: fetcher, backend: backend}
}

// Import fetches the template named by source and creates each workout it
// defines. It returns the created workouts. The first backend failure stops
// the import; workouts created before it remain created.
func (im *Importer) Import(ctx context.Context, source string) ([]api.Workout, error) {
	owner, repo, path, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	content, err := im.fetcher.FetchTemplate(ctx, owner, repo, path)
	if err != nil {
		return nil, err
	}

	tpl, err := ParseTemplate([]byte(content))
	if err != nil {
		return nil, err
	}

	created := make([]api.Workout, 0, len(tpl.Workouts))
	for _, tw := range tpl.Workouts {
		w, err := im.backend.CreateWorkout(ctx, tw.ToWorkout())
		if err != nil {
			return created, errors.MutationFailed("import workout "+tw.Name, err)
		}
		created = append(created, *w)
	}
	return created, nil
}
