package store

import "time"

// VitalStatus classifies a vital sign reading.
type VitalStatus string

const (
	VitalNormal   VitalStatus = "normal"
	VitalWarning  VitalStatus = "warning"
	VitalCritical VitalStatus = "critical"
)

// TrendDirection describes how a vital is moving between readings.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// VitalSign is a single timestamped physiological measurement. Readings are
// immutable once recorded; the store only ever inserts them.
type VitalSign struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"` // free-form biometric category, e.g. "heart_rate"
	Value     float64        `json:"value"`
	Unit      string         `json:"unit"`
	Timestamp time.Time      `json:"timestamp"`
	Status    VitalStatus    `json:"status"`
	Trend     TrendDirection `json:"trend,omitempty"`
}

// LabStatus classifies a laboratory result.
type LabStatus string

const (
	LabNormal   LabStatus = "normal"
	LabAbnormal LabStatus = "abnormal"
	LabCritical LabStatus = "critical"
	LabPending  LabStatus = "pending"
)

// LabResult is a laboratory test outcome. Values are strings because results
// may be non-numeric ("positive"/"negative").
type LabResult struct {
	ID             string    `json:"id"`
	TestName       string    `json:"test_name"`
	Value          string    `json:"value"`
	Unit           string    `json:"unit,omitempty"`
	ReferenceRange string    `json:"reference_range,omitempty"`
	Status         LabStatus `json:"status"`
	Date           time.Time `json:"date"`
	OrderedBy      string    `json:"ordered_by,omitempty"`
	Reviewed       bool      `json:"reviewed"`
}

// LabResultPatch carries a partial update to a LabResult. Nil fields are
// left unchanged.
type LabResultPatch struct {
	TestName       *string    `json:"test_name,omitempty"`
	Value          *string    `json:"value,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	ReferenceRange *string    `json:"reference_range,omitempty"`
	Status         *LabStatus `json:"status,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	OrderedBy      *string    `json:"ordered_by,omitempty"`
	Reviewed       *bool      `json:"reviewed,omitempty"`
}

// MedicationStatus tracks a prescription over its life.
type MedicationStatus string

const (
	MedicationActive       MedicationStatus = "active"
	MedicationCompleted    MedicationStatus = "completed"
	MedicationDiscontinued MedicationStatus = "discontinued"
	MedicationOnHold       MedicationStatus = "on_hold"
)

type Medication struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Dosage           string           `json:"dosage"`
	Frequency        string           `json:"frequency"`
	Route            string           `json:"route,omitempty"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	PrescribedBy     string           `json:"prescribed_by,omitempty"`
	Status           MedicationStatus `json:"status"`
	RefillsRemaining int              `json:"refills_remaining"`
	SideEffects      []string         `json:"side_effects,omitempty"`
}

type MedicationPatch struct {
	Name             *string           `json:"name,omitempty"`
	Dosage           *string           `json:"dosage,omitempty"`
	Frequency        *string           `json:"frequency,omitempty"`
	Route            *string           `json:"route,omitempty"`
	StartDate        *time.Time        `json:"start_date,omitempty"`
	EndDate          *time.Time        `json:"end_date,omitempty"`
	PrescribedBy     *string           `json:"prescribed_by,omitempty"`
	Status           *MedicationStatus `json:"status,omitempty"`
	RefillsRemaining *int              `json:"refills_remaining,omitempty"`
	SideEffects      *[]string         `json:"side_effects,omitempty"`
}

// AppointmentType enumerates visit categories.
type AppointmentType string

const (
	ApptConsultation AppointmentType = "consultation"
	ApptFollowUp     AppointmentType = "follow_up"
	ApptProcedure    AppointmentType = "procedure"
	ApptImaging      AppointmentType = "imaging"
	ApptLab          AppointmentType = "lab"
	ApptTelehealth   AppointmentType = "telehealth"
)

// AppointmentStatus tracks an appointment's lifecycle.
type AppointmentStatus string

const (
	ApptScheduled  AppointmentStatus = "scheduled"
	ApptConfirmed  AppointmentStatus = "confirmed"
	ApptInProgress AppointmentStatus = "in_progress"
	ApptCompleted  AppointmentStatus = "completed"
	ApptCancelled  AppointmentStatus = "cancelled"
	ApptNoShow     AppointmentStatus = "no_show"
)

type Appointment struct {
	ID          string            `json:"id"`
	DoctorName  string            `json:"doctor_name"`
	Specialty   string            `json:"specialty,omitempty"`
	DateTime    time.Time         `json:"date_time"`
	DurationMin int               `json:"duration_min"`
	Type        AppointmentType   `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Location    string            `json:"location,omitempty"`
	Notes       string            `json:"notes,omitempty"`
}

type AppointmentPatch struct {
	DoctorName  *string            `json:"doctor_name,omitempty"`
	Specialty   *string            `json:"specialty,omitempty"`
	DateTime    *time.Time         `json:"date_time,omitempty"`
	DurationMin *int               `json:"duration_min,omitempty"`
	Type        *AppointmentType   `json:"type,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty"`
	Location    *string            `json:"location,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// DiagnosisStatus tracks whether a condition is still being managed.
type DiagnosisStatus string

const (
	DiagnosisActive   DiagnosisStatus = "active"
	DiagnosisResolved DiagnosisStatus = "resolved"
	DiagnosisChronic  DiagnosisStatus = "chronic"
)

type Diagnosis struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	Severity      string          `json:"severity,omitempty"`
	DiagnosedDate time.Time       `json:"diagnosed_date"`
	DiagnosedBy   string          `json:"diagnosed_by,omitempty"`
	Status        DiagnosisStatus `json:"status"`
	CancerStage   string          `json:"cancer_stage,omitempty"`
	CancerType    string          `json:"cancer_type,omitempty"`
}

type DiagnosisPatch struct {
	Code          *string          `json:"code,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Severity      *string          `json:"severity,omitempty"`
	DiagnosedDate *time.Time       `json:"diagnosed_date,omitempty"`
	DiagnosedBy   *string          `json:"diagnosed_by,omitempty"`
	Status        *DiagnosisStatus `json:"status,omitempty"`
	CancerStage   *string          `json:"cancer_stage,omitempty"`
	CancerType    *string          `json:"cancer_type,omitempty"`
}

// ScreeningStatus classifies a cancer screening outcome.
type ScreeningStatus string

const (
	ScreeningNormal   ScreeningStatus = "normal"
	ScreeningAbnormal ScreeningStatus = "abnormal"
	ScreeningPending  ScreeningStatus = "pending"
)

// CancerScreening records one screening event. Whether it is overdue is
// derived from NextDue at query time, never stored.
type CancerScreening struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Date     time.Time       `json:"date"`
	Result   string          `json:"result,omitempty"`
	Status   ScreeningStatus `json:"status"`
	NextDue  time.Time       `json:"next_due"`
	Provider string          `json:"provider,omitempty"`
}

type CancerScreeningPatch struct {
	Type     *string          `json:"type,omitempty"`
	Date     *time.Time       `json:"date,omitempty"`
	Result   *string          `json:"result,omitempty"`
	Status   *ScreeningStatus `json:"status,omitempty"`
	NextDue  *time.Time       `json:"next_due,omitempty"`
	Provider *string          `json:"provider,omitempty"`
}

// TreatmentStatus tracks a treatment plan's lifecycle.
type TreatmentStatus string

const (
	TreatmentPlanned   TreatmentStatus = "planned"
	TreatmentActive    TreatmentStatus = "active"
	TreatmentCompleted TreatmentStatus = "completed"
	TreatmentSuspended TreatmentStatus = "suspended"
)

type TreatmentPlan struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Protocol        string          `json:"protocol,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Status          TreatmentStatus `json:"status"`
	CyclesCompleted int             `json:"cycles_completed"`
	CyclesTotal     int             `json:"cycles_total"`
	ResponseNotes   string          `json:"response_notes,omitempty"`
	SideEffects     []string        `json:"side_effects,omitempty"`
}

type TreatmentPlanPatch struct {
	Type            *string          `json:"type,omitempty"`
	Protocol        *string          `json:"protocol,omitempty"`
	StartDate       *time.Time       `json:"start_date,omitempty"`
	EndDate         *time.Time       `json:"end_date,omitempty"`
	Status          *TreatmentStatus `json:"status,omitempty"`
	CyclesCompleted *int             `json:"cycles_completed,omitempty"`
	CyclesTotal     *int             `json:"cycles_total,omitempty"`
	ResponseNotes   *string          `json:"response_notes,omitempty"`
	SideEffects     *[]string        `json:"side_effects,omitempty"`
}

// EmergencyContact is one entry of the patient's ordered contact list.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
}

// InsuranceInfo holds the patient's coverage details.
type InsuranceInfo struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
	GroupNumber  string `json:"group_number,omitempty"`
}

// PatientProfile is the singleton root record for the session's patient.
type PatientProfile struct {
	ID                  string             `json:"id"`
	FirstName           string             `json:"first_name"`
	LastName            string             `json:"last_name"`
	DateOfBirth         time.Time          `json:"date_of_birth"`
	Gender              string             `json:"gender,omitempty"`
	BloodType           string             `json:"blood_type,omitempty"`
	MedicalRecordNumber string             `json:"medical_record_number,omitempty"`
	Phone               string             `json:"phone,omitempty"`
	Email               string             `json:"email,omitempty"`
	Address             string             `json:"address,omitempty"`
	EmergencyContacts   []EmergencyContact `json:"emergency_contacts,omitempty"`
	Insurance           *InsuranceInfo     `json:"insurance,omitempty"`
	Allergies           []string           `json:"allergies,omitempty"`
	PrimaryDoctor       string             `json:"primary_doctor,omitempty"`
}

type PatientProfilePatch struct {
	FirstName           *string             `json:"first_name,omitempty"`
	LastName            *string             `json:"last_name,omitempty"`
	DateOfBirth         *time.Time          `json:"date_of_birth,omitempty"`
	Gender              *string             `json:"gender,omitempty"`
	BloodType           *string             `json:"blood_type,omitempty"`
	MedicalRecordNumber *string             `json:"medical_record_number,omitempty"`
	Phone               *string             `json:"phone,omitempty"`
	Email               *string             `json:"email,omitempty"`
	Address             *string             `json:"address,omitempty"`
	EmergencyContacts   *[]EmergencyContact `json:"emergency_contacts,omitempty"`
	Insurance           *InsuranceInfo      `json:"insurance,omitempty"`
	Allergies           *[]string           `json:"allergies,omitempty"`
	PrimaryDoctor       *string             `json:"primary_doctor,omitempty"`
}
