// Package snapshot keeps a dataset in a single YAML document. It serves both
// as a small file-backed store and as the import/export format.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const formatVersion = 1

type yamlDocument struct {
	Version  int           `yaml:"version"`
	Projects []yamlProject `yaml:"projects"`
	Times    []yamlTime    `yaml:"times"`
}

type yamlProject struct {
	ID        int64     `yaml:"id"`
	UniqueID  string    `yaml:"unique_id"`
	Name      string    `yaml:"name"`
	Status    string    `yaml:"status"`
	CreatedAt time.Time `yaml:"created_at"`
}

type yamlTime struct {
	ID      int64      `yaml:"id"`
	Project string     `yaml:"project"`
	Start   time.Time  `yaml:"start"`
	End     *time.Time `yaml:"end,omitempty"`
}

// FileBackend persists a dataset by rewriting one YAML file after every
// mutation.
type FileBackend struct {
	path   string
	doc    yamlDocument
	logger *zap.Logger
}

var _ dataset.Backend = (*FileBackend)(nil)

// NewFileBackend prepares a backend for path. The file is created on the
// first mutation if it does not exist yet.
func NewFileBackend(path string, logger *zap.Logger) *FileBackend {
	return &FileBackend{
		path:   path,
		doc:    yamlDocument{Version: formatVersion},
		logger: logger,
	}
}

// Load reads the document and links entries to their projects.
func (b *FileBackend) Load() ([]*models.Project, []*models.TimeEntry, error) {
	rawData, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read dataset file: %w", err)
	}

	doc, err := decode(rawData)
	if err != nil {
		return nil, nil, err
	}
	b.doc = doc

	projects, times := b.materialize()
	return projects, times, nil
}

func (b *FileBackend) materialize() ([]*models.Project, []*models.TimeEntry) {
	byUID := make(map[string]*models.Project, len(b.doc.Projects))
	projects := make([]*models.Project, 0, len(b.doc.Projects))
	for _, row := range b.doc.Projects {
		p := &models.Project{
			ID:        row.ID,
			UniqueID:  row.UniqueID,
			Name:      row.Name,
			Status:    models.ProjectStatus(row.Status),
			CreatedAt: row.CreatedAt,
		}
		if !p.Status.Valid() {
			p.Status = models.ProjectStatusActive
		}
		byUID[p.UniqueID] = p
		projects = append(projects, p)
	}

	times := make([]*models.TimeEntry, 0, len(b.doc.Times))
	for _, row := range b.doc.Times {
		project, ok := byUID[row.Project]
		if !ok {
			b.logger.Warn("Skipping orphaned time entry",
				zap.Int64("id", row.ID),
				zap.String("project_uid", row.Project),
			)
			continue
		}
		times = append(times, &models.TimeEntry{
			ID:      row.ID,
			Project: project,
			Start:   row.Start,
			End:     row.End,
		})
	}
	return projects, times
}

func (b *FileBackend) InsertProject(p *models.Project) error {
	next := b.clone()
	p.ID = nextID(len(next.Projects), func(i int) int64 { return next.Projects[i].ID })
	next.Projects = append(next.Projects, projectRow(p))
	return b.commit(next)
}

func (b *FileBackend) UpdateProject(p *models.Project) error {
	next := b.clone()
	idx := slices.IndexFunc(next.Projects, func(row yamlProject) bool { return row.UniqueID == p.UniqueID })
	if idx < 0 {
		return fmt.Errorf("project not found")
	}
	next.Projects[idx] = projectRow(p)
	return b.commit(next)
}

func (b *FileBackend) DeleteProject(p *models.Project) error {
	next := b.clone()
	before := len(next.Projects)
	next.Projects = slices.DeleteFunc(next.Projects, func(row yamlProject) bool { return row.UniqueID == p.UniqueID })
	if len(next.Projects) == before {
		return fmt.Errorf("project not found")
	}
	next.Times = slices.DeleteFunc(next.Times, func(row yamlTime) bool { return row.Project == p.UniqueID })
	return b.commit(next)
}

func (b *FileBackend) InsertTime(e *models.TimeEntry) error {
	if e.Project == nil {
		return fmt.Errorf("time entry has no project")
	}
	next := b.clone()
	e.ID = nextID(len(next.Times), func(i int) int64 { return next.Times[i].ID })
	next.Times = append(next.Times, timeRow(e))
	return b.commit(next)
}

func (b *FileBackend) UpdateTime(e *models.TimeEntry) error {
	next := b.clone()
	idx := slices.IndexFunc(next.Times, func(row yamlTime) bool { return row.ID == e.ID })
	if idx < 0 {
		return fmt.Errorf("time entry not found")
	}
	next.Times[idx] = timeRow(e)
	return b.commit(next)
}

func (b *FileBackend) DeleteTime(e *models.TimeEntry) error {
	next := b.clone()
	before := len(next.Times)
	next.Times = slices.DeleteFunc(next.Times, func(row yamlTime) bool { return row.ID == e.ID })
	if len(next.Times) == before {
		return fmt.Errorf("time entry not found")
	}
	return b.commit(next)
}

func (b *FileBackend) Close() error {
	return nil
}

// clone copies the document so a failed write leaves b.doc untouched.
func (b *FileBackend) clone() yamlDocument {
	return yamlDocument{
		Version:  b.doc.Version,
		Projects: slices.Clone(b.doc.Projects),
		Times:    slices.Clone(b.doc.Times),
	}
}

func (b *FileBackend) commit(next yamlDocument) error {
	if err := writeFile(b.path, next); err != nil {
		return err
	}
	b.doc = next
	return nil
}

// Save writes every project and entry of ds to path.
func Save(ds dataset.ProjectTimeStore, path string) error {
	return writeFile(path, documentOf(ds))
}

// Export writes ds as YAML to w.
func Export(ds dataset.ProjectTimeStore, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(documentOf(ds)); err != nil {
		return fmt.Errorf("marshal dataset yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("flush dataset yaml: %w", err)
	}
	return nil
}

// Load reads path into a memory-only store.
func Load(path string, logger *zap.Logger) (*dataset.Store, error) {
	source, err := dataset.Open(NewFileBackend(path, logger), logger)
	if err != nil {
		return nil, err
	}
	memory := dataset.NewMemory(logger)
	dataset.Copy(source, memory)
	return memory, nil
}

func documentOf(ds dataset.ProjectTimeStore) yamlDocument {
	doc := yamlDocument{Version: formatVersion}
	for p := range ds.Projects() {
		doc.Projects = append(doc.Projects, projectRow(p))
	}
	var id int64
	for e := range ds.Times() {
		row := timeRow(e)
		if row.ID == 0 {
			id++
			row.ID = id
		}
		doc.Times = append(doc.Times, row)
	}
	return doc
}

func decode(rawData []byte) (yamlDocument, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(rawData, &doc); err != nil {
		return doc, fmt.Errorf("parse dataset yaml: %w", err)
	}
	if doc.Version > formatVersion {
		return doc, fmt.Errorf("dataset format version %d is newer than supported %d", doc.Version, formatVersion)
	}
	doc.Version = formatVersion
	return doc, nil
}

func writeFile(path string, doc yamlDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	serialized, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal dataset yaml: %w", err)
	}

	// write-then-rename so readers never see a half-written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write dataset file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace dataset file: %w", err)
	}
	return nil
}

func projectRow(p *models.Project) yamlProject {
	return yamlProject{
		ID:        p.ID,
		UniqueID:  p.UniqueID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.UTC(),
	}
}

func timeRow(e *models.TimeEntry) yamlTime {
	row := yamlTime{
		ID:      e.ID,
		Project: e.ProjectUID(),
		Start:   e.Start.UTC(),
	}
	if e.End != nil {
		end := e.End.UTC()
		row.End = &end
	}
	return row
}

func nextID(n int, at func(int) int64) int64 {
	var highest int64
	for i := 0; i < n; i++ {
		if id := at(i); id > highest {
			highest = id
		}
	}
	return highest + 1
}
