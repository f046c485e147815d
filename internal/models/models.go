// internal/models/models.go

package models

import (
	"time"
)

// TelemetrySample is one snapshot from the child's wearable. Absent sensor
// readings are nil and skipped by the threshold evaluator.
type TelemetrySample struct {
	LiveHeartRate     *int         `json:"liveHeartRate,omitempty"`
	RestingHeartRate  *int         `json:"restingHeartRate,omitempty"`
	DailySteps        *int         `json:"dailySteps,omitempty"`
	LastSleepDuration *float64     `json:"lastSleepDuration,omitempty"` // hours
	SleepStages       []SleepStage `json:"sleepStages,omitempty"`
	BodyTemperature   *float64     `json:"bodyTemperature,omitempty"` // celsius
	SpO2              *int         `json:"spo2,omitempty"`            // percent
	LastUpdated       time.Time    `json:"lastUpdated"`
}

type SleepStage struct {
	Stage           string `json:"stage"` // deep | light | rem | awake
	DurationMinutes int    `json:"durationMinutes"`
}

// ActivityRecord is one day of imported activity data (CSV upload).
type ActivityRecord struct {
	Date          string   `json:"date"` // yyyy-MM-dd
	Steps         *int     `json:"steps,omitempty"`
	Calories      *int     `json:"calories,omitempty"`
	Distance      *float64 `json:"distance,omitempty"` // km
	ActiveMinutes *int     `json:"active_minutes,omitempty"`
}

// ActivityGoals are the daily targets shown on the dashboard.
type ActivityGoals struct {
	Steps         int     `json:"steps"`
	Calories      int     `json:"calories"`
	Distance      float64 `json:"distance"`
	ActiveMinutes int     `json:"active_minutes"`
}

func DefaultActivityGoals() ActivityGoals {
	return ActivityGoals{
		Steps:         10000,
		Calories:      500,
		Distance:      5,
		ActiveMinutes: 60,
	}
}

// ActivitySummary is the dashboard view: the latest record against goals.
type ActivitySummary struct {
	Latest   *ActivityRecord `json:"latest"`
	Goals    ActivityGoals   `json:"goals"`
	Days     int             `json:"days"`
	AvgSteps float64         `json:"avg_steps"`
}

// User is a parent account. PasswordHash is a bcrypt digest and never leaves
// the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ParentName   string    `json:"parent_name"`
	ChildName    string    `json:"child_name"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --- HTTP request/response shapes ---

type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	ParentName string `json:"parent_name"`
	ChildName  string `json:"child_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

type UpdateProfileRequest struct {
	ParentName *string `json:"parent_name"`
	ChildName  *string `json:"child_name"`
}

type AnalyzeTextRequest struct {
	Text string `json:"text"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  struct {
		Store      bool `json:"store"`
		Classifier bool `json:"classifier"`
		Telemetry  bool `json:"telemetry"`
	} `json:"services"`
}

// WSMessage is the envelope pushed to dashboard clients.
type WSMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}
