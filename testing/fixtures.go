// Package testing provides database setup and fixtures for integration tests
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateStudent creates a student with a completed profile. Branch,
// semester, and year drive audience matching in the tests that use it.
func (tf *TestFixtures) CreateStudent(branch string, semester, year int) (*models.User, error) {
	n := rand.Intn(900000) + 100000
	user := &models.User{
		UUID:             uuid.New(),
		Email:            fmt.Sprintf("student.%d@college.edu", n),
		Name:             fmt.Sprintf("Student %d", n),
		Provider:         "google",
		Subject:          fmt.Sprintf("google-sub-%d", n),
		Role:             models.RoleStudent,
		College:          utils.ToPtr("Eduvia Institute of Technology"),
		Branch:           utils.ToPtr(branch),
		Semester:         utils.ToPtr(semester),
		YearOfStudy:      utils.ToPtr(year),
		ProgramType:      utils.ToPtr(models.ProgramBTech),
		ProfileCompleted: true,
	}
	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test student: %w", err)
	}
	return user, nil
}

// CreateFreshUser creates a user who signed in but never filled the
// profile form, so every profile field is unset.
func (tf *TestFixtures) CreateFreshUser() (*models.User, error) {
	n := rand.Intn(900000) + 100000
	user := &models.User{
		UUID:     uuid.New(),
		Email:    fmt.Sprintf("fresh.%d@college.edu", n),
		Name:     fmt.Sprintf("Fresh User %d", n),
		Provider: "google",
		Subject:  fmt.Sprintf("google-sub-%d", n),
		Role:     models.RoleStudent,
	}
	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateAdmin creates an admin account
func (tf *TestFixtures) CreateAdmin() (*models.User, error) {
	n := rand.Intn(900000) + 100000
	user := &models.User{
		UUID:     uuid.New(),
		Email:    fmt.Sprintf("admin.%d@college.edu", n),
		Name:     fmt.Sprintf("Admin %d", n),
		Provider: "google",
		Subject:  fmt.Sprintf("google-sub-%d", n),
		Role:     models.RoleAdmin,
	}
	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return user, nil
}

// CreateNote creates a note targeted at the given audience. Empty slices
// and a nil year leave that dimension open to everyone.
func (tf *TestFixtures) CreateNote(createdBy uint, branches []string, semesters []int32, year *int) (*models.Note, error) {
	n := rand.Intn(900000) + 100000
	if branches == nil {
		branches = []string{}
	}
	if semesters == nil {
		semesters = []int32{}
	}
	note := &models.Note{
		Title:       fmt.Sprintf("Unit %d Notes", n),
		Course:      "Data Structures",
		FileID:      fmt.Sprintf("file-%d", n),
		DriveURL:    fmt.Sprintf("https://drive.google.com/uc?id=file-%d", n),
		Branches:    pq.StringArray(branches),
		Semesters:   pq.Int32Array(semesters),
		YearOfStudy: year,
		CreatedBy:   createdBy,
	}
	if err := tf.DB.DB.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create test note: %w", err)
	}
	return note, nil
}

// CreateEvent creates a campus event starting at the given offset from now
func (tf *TestFixtures) CreateEvent(createdBy uint, startsIn, duration int) (*models.Event, error) {
	n := rand.Intn(900000) + 100000
	start := utils.UTCNow().Add(hours(startsIn))
	event := &models.Event{
		Title:       fmt.Sprintf("Tech Fest %d", n),
		Description: "Annual technical festival",
		StartsAt:    start,
		EndsAt:      start.Add(hours(duration)),
		CreatedBy:   createdBy,
	}
	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test event: %w", err)
	}
	return event, nil
}

// CreateLostFoundItem creates a lost & found report for the given user
func (tf *TestFixtures) CreateLostFoundItem(userID uint, status string) (*models.LostFoundItem, error) {
	n := rand.Intn(900000) + 100000
	item := &models.LostFoundItem{
		ItemName:    fmt.Sprintf("Calculator %d", n),
		Description: "Scientific calculator left in the library",
		Status:      status,
		Contact:     fmt.Sprintf("+919%09d", rand.Intn(900000000)+100000000),
		UserID:      userID,
	}
	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lost & found item: %w", err)
	}
	return item, nil
}

func hours(n int) time.Duration { return time.Duration(n) * time.Hour }
