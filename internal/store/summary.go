package store

// Health score weights. These are heuristic constants replicated exactly
// from the upstream scoring scheme; the score is a rough composite for
// dashboard display, not a clinical instrument, and the weights are not
// configurable.
const (
	penaltyCriticalVital   = 15
	penaltyAbnormalLab     = 5
	penaltyOverdueScreen   = 8
	penaltySevereDiagnosis = 10
	penaltyActiveMed       = 2
)

// ClinicalSummary is the derived alert view over the current collections.
// It is recomputed from scratch on every call and holds no state of its
// own, so it cannot drift from the underlying data.
type ClinicalSummary struct {
	AbnormalLabs      []LabResult       `json:"abnormal_labs"`
	CriticalVitals    []VitalSign       `json:"critical_vitals"`
	OverdueScreenings []CancerScreening `json:"overdue_screenings"`
	AlertCount        int               `json:"alert_count"`
	HasAnyAlerts      bool              `json:"has_any_alerts"`
	HealthScore       int               `json:"health_score"`
}

// Summary computes the clinical alert summary and health score.
//
// CriticalVitals counts every reading with critical status regardless of
// recency — a newer normal reading does not retire an older critical one
// from alerting. That is distinct from LatestVitals, which is a
// display-only latest-value view.
func (s *MedicalDataStore) Summary() ClinicalSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var critical []VitalSign
	for _, v := range s.vitals {
		if v.Status == VitalCritical {
			critical = append(critical, v)
		}
	}

	abnormal := s.abnormalLabsLocked()
	overdue := s.overdueScreeningsLocked(s.now())

	score := 100
	score -= penaltyCriticalVital * len(critical)
	score -= penaltyAbnormalLab * len(abnormal)
	score -= penaltyOverdueScreen * len(overdue)
	for _, d := range s.diagnoses {
		if d.Status == DiagnosisActive && d.Severity == "severe" {
			score -= penaltySevereDiagnosis
		}
	}
	score -= penaltyActiveMed * len(s.activeMedicationsLocked())
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	count := len(abnormal) + len(critical) + len(overdue)
	return ClinicalSummary{
		AbnormalLabs:      abnormal,
		CriticalVitals:    critical,
		OverdueScreenings: overdue,
		AlertCount:        count,
		HasAnyAlerts:      count > 0,
		HealthScore:       score,
	}
}

// HealthScore is a convenience accessor for the composite score.
func (s *MedicalDataStore) HealthScore() int {
	return s.Summary().HealthScore
}
