// Package store holds one patient's clinical record set in memory and
// derives alerts and a composite health score from it. Every mutation is a
// total function over the current state: unknown ids are silently ignored
// and no operation fails or performs I/O. The store is safe for concurrent
// use; a single lock guards the whole state because derived values read
// across collections.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collection keys used for loading flags and last-fetched stamps.
const (
	CollectionVitals         = "vitals"
	CollectionLabResults     = "lab_results"
	CollectionMedications    = "medications"
	CollectionAppointments   = "appointments"
	CollectionDiagnoses      = "diagnoses"
	CollectionScreenings     = "screenings"
	CollectionTreatmentPlans = "treatment_plans"
)

// MedicalDataStore owns the canonical in-memory state for one patient
// session. Construct one per session with New and pass it explicitly to
// whatever needs it.
type MedicalDataStore struct {
	mu sync.RWMutex

	patient        *PatientProfile
	vitals         []VitalSign
	labResults     []LabResult
	medications    []Medication
	appointments   []Appointment
	diagnoses      []Diagnosis
	screenings     []CancerScreening
	treatmentPlans []TreatmentPlan

	loading   map[string]bool
	errors    map[string]string
	fetchedAt map[string]time.Time

	nowFn func() time.Time
}

// New returns an empty store.
func New() *MedicalDataStore {
	return &MedicalDataStore{
		loading:   make(map[string]bool),
		errors:    make(map[string]string),
		fetchedAt: make(map[string]time.Time),
		nowFn:     time.Now,
	}
}

// SetClock overrides the store's notion of "now". Used by tests; the
// default is time.Now.
func (s *MedicalDataStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
}

func (s *MedicalDataStore) now() time.Time {
	return s.nowFn()
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// -- Bulk replacement --

// SetVitals replaces the vitals collection wholesale and stamps its
// last-fetched time.
func (s *MedicalDataStore) SetVitals(vitals []VitalSign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vitals = append([]VitalSign(nil), vitals...)
	s.fetchedAt[CollectionVitals] = s.now()
}

func (s *MedicalDataStore) SetLabResults(labs []LabResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labResults = append([]LabResult(nil), labs...)
	s.fetchedAt[CollectionLabResults] = s.now()
}

func (s *MedicalDataStore) SetMedications(meds []Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medications = append([]Medication(nil), meds...)
	s.fetchedAt[CollectionMedications] = s.now()
}

func (s *MedicalDataStore) SetAppointments(appts []Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append([]Appointment(nil), appts...)
	s.fetchedAt[CollectionAppointments] = s.now()
}

func (s *MedicalDataStore) SetDiagnoses(dx []Diagnosis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnoses = append([]Diagnosis(nil), dx...)
	s.fetchedAt[CollectionDiagnoses] = s.now()
}

func (s *MedicalDataStore) SetScreenings(scr []CancerScreening) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenings = append([]CancerScreening(nil), scr...)
	s.fetchedAt[CollectionScreenings] = s.now()
}

func (s *MedicalDataStore) SetTreatmentPlans(plans []TreatmentPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.treatmentPlans = append([]TreatmentPlan(nil), plans...)
	s.fetchedAt[CollectionTreatmentPlans] = s.now()
}

// -- Incremental inserts --
//
// Vitals, labs, medications, diagnoses and screenings are kept
// most-recent-first, so new entries are prepended. Appointments preserve
// insertion order; clinical ordering there is a derived sort. No id
// deduplication is performed — callers own id uniqueness.

// AddVital records a new reading. An empty id gets a generated one.
func (s *MedicalDataStore) AddVital(v VitalSign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = ensureID(v.ID)
	s.vitals = append([]VitalSign{v}, s.vitals...)
}

func (s *MedicalDataStore) AddLabResult(l LabResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = ensureID(l.ID)
	s.labResults = append([]LabResult{l}, s.labResults...)
}

func (s *MedicalDataStore) AddMedication(m Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = ensureID(m.ID)
	s.medications = append([]Medication{m}, s.medications...)
}

func (s *MedicalDataStore) AddAppointment(a Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = ensureID(a.ID)
	s.appointments = append(s.appointments, a)
}

func (s *MedicalDataStore) AddDiagnosis(d Diagnosis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = ensureID(d.ID)
	s.diagnoses = append([]Diagnosis{d}, s.diagnoses...)
}

func (s *MedicalDataStore) AddScreening(c CancerScreening) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = ensureID(c.ID)
	s.screenings = append([]CancerScreening{c}, s.screenings...)
}

func (s *MedicalDataStore) AddTreatmentPlan(p TreatmentPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = ensureID(p.ID)
	s.treatmentPlans = append(s.treatmentPlans, p)
}

// -- Partial updates --
//
// Each update merges the non-nil patch fields into the entity with the
// matching id. A missing id is a benign no-op: the store has no channel to
// report it and treats it as a stale reference from a previous load. An
// update never creates an entity.

func (s *MedicalDataStore) UpdateLabResult(id string, p LabResultPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.labResults {
		if s.labResults[i].ID != id {
			continue
		}
		l := &s.labResults[i]
		if p.TestName != nil {
			l.TestName = *p.TestName
		}
		if p.Value != nil {
			l.Value = *p.Value
		}
		if p.Unit != nil {
			l.Unit = *p.Unit
		}
		if p.ReferenceRange != nil {
			l.ReferenceRange = *p.ReferenceRange
		}
		if p.Status != nil {
			l.Status = *p.Status
		}
		if p.Date != nil {
			l.Date = *p.Date
		}
		if p.OrderedBy != nil {
			l.OrderedBy = *p.OrderedBy
		}
		if p.Reviewed != nil {
			l.Reviewed = *p.Reviewed
		}
		return
	}
}

func (s *MedicalDataStore) UpdateMedication(id string, p MedicationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.medications {
		if s.medications[i].ID != id {
			continue
		}
		m := &s.medications[i]
		if p.Name != nil {
			m.Name = *p.Name
		}
		if p.Dosage != nil {
			m.Dosage = *p.Dosage
		}
		if p.Frequency != nil {
			m.Frequency = *p.Frequency
		}
		if p.Route != nil {
			m.Route = *p.Route
		}
		if p.StartDate != nil {
			m.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			m.EndDate = p.EndDate
		}
		if p.PrescribedBy != nil {
			m.PrescribedBy = *p.PrescribedBy
		}
		if p.Status != nil {
			m.Status = *p.Status
		}
		if p.RefillsRemaining != nil {
			m.RefillsRemaining = *p.RefillsRemaining
		}
		if p.SideEffects != nil {
			m.SideEffects = *p.SideEffects
		}
		return
	}
}

func (s *MedicalDataStore) UpdateAppointment(id string, p AppointmentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchAppointment(id, p)
}

func (s *MedicalDataStore) patchAppointment(id string, p AppointmentPatch) {
	for i := range s.appointments {
		if s.appointments[i].ID != id {
			continue
		}
		a := &s.appointments[i]
		if p.DoctorName != nil {
			a.DoctorName = *p.DoctorName
		}
		if p.Specialty != nil {
			a.Specialty = *p.Specialty
		}
		if p.DateTime != nil {
			a.DateTime = *p.DateTime
		}
		if p.DurationMin != nil {
			a.DurationMin = *p.DurationMin
		}
		if p.Type != nil {
			a.Type = *p.Type
		}
		if p.Status != nil {
			a.Status = *p.Status
		}
		if p.Location != nil {
			a.Location = *p.Location
		}
		if p.Notes != nil {
			a.Notes = *p.Notes
		}
		return
	}
}

// CancelAppointment marks the appointment cancelled. It is a privileged
// one-way transition; there is no corresponding uncancel.
func (s *MedicalDataStore) CancelAppointment(id string) {
	cancelled := ApptCancelled
	s.UpdateAppointment(id, AppointmentPatch{Status: &cancelled})
}

func (s *MedicalDataStore) UpdateDiagnosis(id string, p DiagnosisPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.diagnoses {
		if s.diagnoses[i].ID != id {
			continue
		}
		d := &s.diagnoses[i]
		if p.Code != nil {
			d.Code = *p.Code
		}
		if p.Description != nil {
			d.Description = *p.Description
		}
		if p.Severity != nil {
			d.Severity = *p.Severity
		}
		if p.DiagnosedDate != nil {
			d.DiagnosedDate = *p.DiagnosedDate
		}
		if p.DiagnosedBy != nil {
			d.DiagnosedBy = *p.DiagnosedBy
		}
		if p.Status != nil {
			d.Status = *p.Status
		}
		if p.CancerStage != nil {
			d.CancerStage = *p.CancerStage
		}
		if p.CancerType != nil {
			d.CancerType = *p.CancerType
		}
		return
	}
}

func (s *MedicalDataStore) UpdateScreening(id string, p CancerScreeningPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.screenings {
		if s.screenings[i].ID != id {
			continue
		}
		c := &s.screenings[i]
		if p.Type != nil {
			c.Type = *p.Type
		}
		if p.Date != nil {
			c.Date = *p.Date
		}
		if p.Result != nil {
			c.Result = *p.Result
		}
		if p.Status != nil {
			c.Status = *p.Status
		}
		if p.NextDue != nil {
			c.NextDue = *p.NextDue
		}
		if p.Provider != nil {
			c.Provider = *p.Provider
		}
		return
	}
}

func (s *MedicalDataStore) UpdateTreatmentPlan(id string, p TreatmentPlanPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.treatmentPlans {
		if s.treatmentPlans[i].ID != id {
			continue
		}
		t := &s.treatmentPlans[i]
		if p.Type != nil {
			t.Type = *p.Type
		}
		if p.Protocol != nil {
			t.Protocol = *p.Protocol
		}
		if p.StartDate != nil {
			t.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			t.EndDate = p.EndDate
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
		if p.CyclesCompleted != nil {
			t.CyclesCompleted = *p.CyclesCompleted
		}
		if p.CyclesTotal != nil {
			t.CyclesTotal = *p.CyclesTotal
		}
		if p.ResponseNotes != nil {
			t.ResponseNotes = *p.ResponseNotes
		}
		if p.SideEffects != nil {
			t.SideEffects = *p.SideEffects
		}
		return
	}
}

// -- Patient profile --

// SetPatient installs or replaces the singleton profile.
func (s *MedicalDataStore) SetPatient(p PatientProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.patient = &cp
}

// UpdatePatient merges the patch into the profile. No-op when no profile
// has been set yet; an update never creates the profile.
func (s *MedicalDataStore) UpdatePatient(p PatientProfilePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patient == nil {
		return
	}
	pt := s.patient
	if p.FirstName != nil {
		pt.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		pt.LastName = *p.LastName
	}
	if p.DateOfBirth != nil {
		pt.DateOfBirth = *p.DateOfBirth
	}
	if p.Gender != nil {
		pt.Gender = *p.Gender
	}
	if p.BloodType != nil {
		pt.BloodType = *p.BloodType
	}
	if p.MedicalRecordNumber != nil {
		pt.MedicalRecordNumber = *p.MedicalRecordNumber
	}
	if p.Phone != nil {
		pt.Phone = *p.Phone
	}
	if p.Email != nil {
		pt.Email = *p.Email
	}
	if p.Address != nil {
		pt.Address = *p.Address
	}
	if p.EmergencyContacts != nil {
		pt.EmergencyContacts = *p.EmergencyContacts
	}
	if p.Insurance != nil {
		pt.Insurance = p.Insurance
	}
	if p.Allergies != nil {
		pt.Allergies = *p.Allergies
	}
	if p.PrimaryDoctor != nil {
		pt.PrimaryDoctor = *p.PrimaryDoctor
	}
}

// Patient returns a copy of the profile, or nil if none has been set.
func (s *MedicalDataStore) Patient() *PatientProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.patient == nil {
		return nil
	}
	cp := *s.patient
	return &cp
}

// -- Loading flags and errors --
//
// These are independent of data content; the external fetch layer reports
// its outcomes here, the store never generates them.

func (s *MedicalDataStore) SetLoading(key string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loading {
		s.loading[key] = true
	} else {
		delete(s.loading, key)
	}
}

func (s *MedicalDataStore) IsLoading(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[key]
}

// SetError records a fetch error under key; a nil message clears it.
func (s *MedicalDataStore) SetError(key string, message *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == nil {
		delete(s.errors, key)
		return
	}
	s.errors[key] = *message
}

// Error returns the recorded message for key and whether one exists.
func (s *MedicalDataStore) Error(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.errors[key]
	return msg, ok
}

// LastFetched reports when a collection was last bulk-set.
func (s *MedicalDataStore) LastFetched(collection string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.fetchedAt[collection]
	return ts, ok
}

// ClearAll resets the store to its initial empty state in one step. The
// loading map is deliberately left alone: fetches that started before the
// clear still own their flags and will release them on completion.
func (s *MedicalDataStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient = nil
	s.vitals = nil
	s.labResults = nil
	s.medications = nil
	s.appointments = nil
	s.diagnoses = nil
	s.screenings = nil
	s.treatmentPlans = nil
	s.errors = make(map[string]string)
	s.fetchedAt = make(map[string]time.Time)
}

// -- Plain collection reads (copies, insertion order) --

func (s *MedicalDataStore) Vitals() []VitalSign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]VitalSign(nil), s.vitals...)
}

func (s *MedicalDataStore) LabResults() []LabResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LabResult(nil), s.labResults...)
}

func (s *MedicalDataStore) Medications() []Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Medication(nil), s.medications...)
}

func (s *MedicalDataStore) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Appointment(nil), s.appointments...)
}

func (s *MedicalDataStore) Diagnoses() []Diagnosis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Diagnosis(nil), s.diagnoses...)
}

func (s *MedicalDataStore) Screenings() []CancerScreening {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CancerScreening(nil), s.screenings...)
}

func (s *MedicalDataStore) TreatmentPlans() []TreatmentPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TreatmentPlan(nil), s.treatmentPlans...)
}
