package store

import (
	"sort"
	"strings"
	"time"
)

// Derived queries. Each one is a pure function of the current state: it
// recomputes from the collections on every call and never mutates them.

// LatestVitals returns, per vital type, the single reading with the most
// recent timestamp. Ties break to the first occurrence after a stable
// descending sort, i.e. the earlier-inserted reading wins.
func (s *MedicalDataStore) LatestVitals() map[string]VitalSign {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := append([]VitalSign(nil), s.vitals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	latest := make(map[string]VitalSign)
	for _, v := range sorted {
		if _, ok := latest[v.Type]; !ok {
			latest[v.Type] = v
		}
	}
	return latest
}

// VitalTrend returns readings of the given type whose timestamp falls
// within the lookback window (now − days, inclusive), oldest first for
// charting.
func (s *MedicalDataStore) VitalTrend(vitalType string, days int) []VitalSign {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().AddDate(0, 0, -days)
	var out []VitalSign
	for _, v := range s.vitals {
		if v.Type != vitalType {
			continue
		}
		if v.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// PendingLabs returns labs still awaiting a result.
func (s *MedicalDataStore) PendingLabs() []LabResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []LabResult
	for _, l := range s.labResults {
		if l.Status == LabPending {
			out = append(out, l)
		}
	}
	return out
}

// AbnormalLabs returns labs flagged abnormal or critical.
func (s *MedicalDataStore) AbnormalLabs() []LabResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.abnormalLabsLocked()
}

func (s *MedicalDataStore) abnormalLabsLocked() []LabResult {
	var out []LabResult
	for _, l := range s.labResults {
		if l.Status == LabAbnormal || l.Status == LabCritical {
			out = append(out, l)
		}
	}
	return out
}

// ActiveMedications returns medications currently being taken.
func (s *MedicalDataStore) ActiveMedications() []Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeMedicationsLocked()
}

func (s *MedicalDataStore) activeMedicationsLocked() []Medication {
	var out []Medication
	for _, m := range s.medications {
		if m.Status == MedicationActive {
			out = append(out, m)
		}
	}
	return out
}

// UpcomingAppointments returns non-cancelled appointments strictly after
// now, soonest first.
func (s *MedicalDataStore) UpcomingAppointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var out []Appointment
	for _, a := range s.appointments {
		if a.Status == ApptCancelled {
			continue
		}
		if !a.DateTime.After(now) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}

// ActiveDiagnoses returns diagnoses still being managed (active or chronic).
func (s *MedicalDataStore) ActiveDiagnoses() []Diagnosis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Diagnosis
	for _, d := range s.diagnoses {
		if d.Status == DiagnosisActive || d.Status == DiagnosisChronic {
			out = append(out, d)
		}
	}
	return out
}

// CancerDiagnoses returns diagnoses with a cancer type set or a
// classification code starting with "C". The prefix check is a coding
// convention heuristic carried over from the upstream data model; it is
// intentionally approximate and kept as-is.
func (s *MedicalDataStore) CancerDiagnoses() []Diagnosis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Diagnosis
	for _, d := range s.diagnoses {
		if d.CancerType != "" || strings.HasPrefix(d.Code, "C") {
			out = append(out, d)
		}
	}
	return out
}

// OverdueScreenings returns screenings whose next-due date is strictly
// before now. Overdue is derived here on every call, never stored.
func (s *MedicalDataStore) OverdueScreenings() []CancerScreening {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overdueScreeningsLocked(s.now())
}

func (s *MedicalDataStore) overdueScreeningsLocked(now time.Time) []CancerScreening {
	var out []CancerScreening
	for _, c := range s.screenings {
		if c.NextDue.Before(now) {
			out = append(out, c)
		}
	}
	return out
}

// ActiveTreatments returns treatment plans currently underway.
func (s *MedicalDataStore) ActiveTreatments() []TreatmentPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TreatmentPlan
	for _, p := range s.treatmentPlans {
		if p.Status == TreatmentActive {
			out = append(out, p)
		}
	}
	return out
}
