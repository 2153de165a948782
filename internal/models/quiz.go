package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quiz status labels. Status is a denormalized cache recomputed on
// write; activeness queries go by the time window, never this field.
const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Quiz is a single quiz document stored in MongoDB.
type Quiz struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Question    string             `json:"question"    bson:"question"`
	Options     []string           `json:"options"     bson:"options"`
	RightAnswer int                `json:"rightAnswer" bson:"right_answer"`
	StartDate   time.Time          `json:"startDate"   bson:"start_date"`
	EndDate     time.Time          `json:"endDate"     bson:"end_date"`
	Status      string             `json:"status"      bson:"status"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updated_at"`
}

// CreateQuizRequest is the JSON body for POST /quizzes/create-quiz.
type CreateQuizRequest struct {
	Question    string    `json:"question"`
	Options     []string  `json:"options"`
	RightAnswer int       `json:"rightAnswer"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	// Status is accepted for wire compatibility but ignored; the
	// server recomputes it from the window.
	Status string `json:"status"`
}

// QuizResult is the response for GET /quizzes/get-quiz-result/{id}.
// Only the resolved option text leaves the server, never the index.
type QuizResult struct {
	CorrectAnswer string `json:"correctAnswer"`
}
