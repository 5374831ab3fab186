package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type fakeCourseRepo struct {
	courses map[string]*models.Course
	listErr error
	deleted []string
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: map[string]*models.Course{}}
	for i := range courses {
		c := courses[i]
		repo.courses[c.ID] = &c
	}
	return repo
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "new-course"
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.courses, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStudentRepo struct {
	students  []models.Student
	batches   [][]models.Student
	deleted   []string
	batchErr  error
	createErr error
}

func (f *fakeStudentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	student.ID = "new-student"
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) CreateBatch(ctx context.Context, students []models.Student) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, students)
	f.students = append(f.students, students...)
	return nil
}

func (f *fakeStudentRepo) DeleteCascade(ctx context.Context, id string) error {
	for i, s := range f.students {
		if s.ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeWeightRepo struct {
	configs map[string]*models.WeightConfig
	upserts int
	findErr error
}

func (f *fakeWeightRepo) FindByCourse(ctx context.Context, courseID string) (*models.WeightConfig, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	cfg, ok := f.configs[courseID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cfg, nil
}

func (f *fakeWeightRepo) Upsert(ctx context.Context, cfg *models.WeightConfig) error {
	if f.configs == nil {
		f.configs = map[string]*models.WeightConfig{}
	}
	f.configs[cfg.CourseID] = cfg
	f.upserts++
	return nil
}

type fakeGradeRepo struct {
	records []models.GradeRecord
	saved   [][]models.GradeRecord
	saveErr error
}

func (f *fakeGradeRepo) ListByCourse(ctx context.Context, courseID string) ([]models.GradeRecord, error) {
	var out []models.GradeRecord
	for _, r := range f.records {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeGradeRepo) UpsertBatch(ctx context.Context, records []models.GradeRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, records)
	return nil
}

type fakeInvalidator struct {
	courses []string
}

func (f *fakeInvalidator) InvalidateCourse(ctx context.Context, courseID string) {
	f.courses = append(f.courses, courseID)
}

// memoryCache is an in-memory CacheRepository storing values by reference.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]interface{}{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *models.GradeOverview:
		*d = *(v.(*models.GradeOverview))
	default:
		return appErrors.ErrCacheMiss
	}
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}
