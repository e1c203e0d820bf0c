package applications

import "time"

// Status is the lifecycle state of an application. Only StatusApplied is reachable.
type Status string

const StatusApplied Status = "applied"

// Application links a student to an internship they applied to.
type Application struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	InternshipID int64     `json:"internship_id"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentApplication is an application joined with the internship it targets.
type StudentApplication struct {
	Application
	Title   string `json:"title"`
	Company string `json:"company"`
}

// ApplyParams is the request body for applying to an internship.
type ApplyParams struct {
	InternshipID int64 `json:"internship_id" validate:"required,gt=0"`
}
