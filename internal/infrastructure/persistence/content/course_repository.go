// Package content provides content repositories
package content

import (
	"database/sql"
	"fmt"

	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
)

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, slug, description, price, image, image_key, published, created_at, changed`

func (r *CourseRepository) FindAll(publishedOnly bool) ([]*content.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at`
	if publishedOnly {
		query = `SELECT ` + courseColumns + ` FROM courses WHERE published = 1 ORDER BY created_at`
	}

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*content.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) FindByID(id string) (*content.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	return r.findOne(query, id)
}

func (r *CourseRepository) FindBySlug(slug string) (*content.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE slug = ?`
	return r.findOne(query, slug)
}

func (r *CourseRepository) Store(course *content.Course) error {
	query := `INSERT INTO courses (` + courseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, course.ID, course.Title, course.Slug, course.Description,
		course.Price, nullable(course.Image), nullable(course.ImageKey), course.Published,
		course.CreatedAt, course.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) Update(course *content.Course) error {
	query := `UPDATE courses SET title = ?, slug = ?, description = ?, price = ?,
		image = ?, image_key = ?, published = ?, changed = ? WHERE id = ?`

	_, err := r.db.Exec(query, course.Title, course.Slug, course.Description, course.Price,
		nullable(course.Image), nullable(course.ImageKey), course.Published,
		course.Changed, course.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (r *CourseRepository) Delete(id string) error {
	query := `DELETE FROM courses WHERE id = ?`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func (r *CourseRepository) findOne(query string, arg any) (*content.Course, error) {
	row := r.db.QueryRow(query, arg)
	course, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*content.Course, error) {
	course := &content.Course{}
	var image, imageKey sql.NullString
	var changed sql.NullTime

	err := row.Scan(&course.ID, &course.Title, &course.Slug, &course.Description,
		&course.Price, &image, &imageKey, &course.Published, &course.CreatedAt, &changed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course row: %w", err)
	}

	course.Image = image.String
	course.ImageKey = imageKey.String
	if changed.Valid {
		course.Changed = changed.Time
	}
	return course, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
