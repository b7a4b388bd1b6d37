package dto

// CreateNoteRequest represents the request payload for publishing a note
type CreateNoteRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255" example:"Unit 3 - Signals and Systems"`
	Course      string   `json:"course" validate:"required,min=1,max=255" example:"Digital Signal Processing"`
	FileID      string   `json:"file_id" validate:"required,min=1,max=255" example:"1aBcD_eFgHiJkLmNoP"`
	DriveURL    string   `json:"drive_url" validate:"required,url,max=1024" example:"https://drive.google.com/uc?id=1aBcD_eFgHiJkLmNoP"`
	Branches    []string `json:"branches" validate:"omitempty,dive,min=1,max=255" example:"Computer Science"`
	Semesters   []int    `json:"semesters" validate:"omitempty,dive,min=1,max=8" example:"3"`
	YearOfStudy *int     `json:"year_of_study,omitempty" validate:"omitempty,min=1,max=4" example:"2"`
}

// NoteDTO represents a note returned by the API
type NoteDTO struct {
	ID          uint     `json:"id" example:"42"`
	Title       string   `json:"title" example:"Unit 3 - Signals and Systems"`
	Course      string   `json:"course" example:"Digital Signal Processing"`
	FileID      string   `json:"file_id" example:"1aBcD_eFgHiJkLmNoP"`
	DriveURL    string   `json:"drive_url" example:"https://drive.google.com/uc?id=1aBcD_eFgHiJkLmNoP"`
	Branches    []string `json:"branches" example:"Computer Science"`
	Semesters   []int    `json:"semesters" example:"3"`
	YearOfStudy *int     `json:"year_of_study,omitempty" example:"2"`
	CreatedAt   string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ListNotesResponse represents the catalog of notes visible to the caller
type ListNotesResponse struct {
	Notes []NoteDTO `json:"notes"`
	Total int       `json:"total" example:"7"`
}

// NoteMatchReport explains why a single note is or is not visible to the caller
type NoteMatchReport struct {
	Note          NoteDTO  `json:"note"`
	Visible       bool     `json:"visible" example:"true"`
	BranchMatch   bool     `json:"branch_match" example:"true"`
	SemesterMatch bool     `json:"semester_match" example:"true"`
	YearMatch     bool     `json:"year_match" example:"true"`
	ProfileBranch string   `json:"profile_branch" example:"computerscience"`
	NoteBranches  []string `json:"note_branches" example:"computerscience"`
}

// DebugNotesResponse represents the per-note visibility trace for the caller
type DebugNotesResponse struct {
	Profile UserDTO           `json:"profile"`
	Reports []NoteMatchReport `json:"reports"`
}

// Common error codes for note operations
const (
	ErrorNoteNotFound   = "NOTE_NOT_FOUND"
	ErrorNoteNotVisible = "NOTE_NOT_VISIBLE"
)
