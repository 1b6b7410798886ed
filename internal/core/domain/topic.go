package domain

// Thesis topic statuses as reported by the API.
const (
	TopicAvailable = "available"
	TopicFull      = "full"
	TopicClosed    = "closed"
)

// Registration statuses.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// Instructor is the lecturer offering a topic, with supervision capacity.
type Instructor struct {
	ID              int    `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	MaxStudents     int    `json:"maxStudents"`
	CurrentStudents int    `json:"currentStudents"`
}

// ThesisRound identifies the graduation round a topic belongs to.
type ThesisRound struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Topic is a proposed graduation thesis topic.
type Topic struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	Instructor  Instructor   `json:"instructor"`
	ThesisRound *ThesisRound `json:"thesisRound,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty"`
}

// Registration is a student's claim on a topic, pending lecturer
// confirmation.
type Registration struct {
	ID           int    `json:"id"`
	TopicID      int    `json:"topicId"`
	StudentID    string `json:"studentId"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
	RegisteredAt string `json:"registeredAt,omitempty"`
}

// RegistrationStudent is the student block attached to a registration in
// lecturer views.
type RegistrationStudent struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	ClassID   string `json:"classId,omitempty"`
}

// RegistrationDetail is the expanded registration the confirmation screen
// works with.
type RegistrationDetail struct {
	Registration
	Student RegistrationStudent `json:"student"`
	Topic   Topic               `json:"topic"`
}

// Report is one weekly progress report.
type Report struct {
	ID            int     `json:"id"`
	Week          int     `json:"week"`
	Content       string  `json:"content"`
	AttachmentURL string  `json:"attachmentUrl,omitempty"`
	SubmittedAt   string  `json:"submittedAt,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Feedback      string  `json:"feedback,omitempty"`
}
