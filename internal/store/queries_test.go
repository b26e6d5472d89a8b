package store

import (
	"testing"
	"time"
)

func TestLatestVitalsPicksMaxTimestampPerType(t *testing.T) {
	s := New()
	s.SetVitals([]VitalSign{
		{ID: "hr-old", Type: "heart_rate", Value: 70, Timestamp: baseTime.Add(-2 * time.Hour)},
		{ID: "hr-new", Type: "heart_rate", Value: 85, Timestamp: baseTime},
		{ID: "temp", Type: "temperature", Value: 37.1, Timestamp: baseTime.Add(-time.Hour)},
	})

	latest := s.LatestVitals()
	if len(latest) != 2 {
		t.Fatalf("expected 2 types, got %d", len(latest))
	}
	if latest["heart_rate"].ID != "hr-new" {
		t.Errorf("heart_rate latest = %q", latest["heart_rate"].ID)
	}
	if latest["temperature"].ID != "temp" {
		t.Errorf("temperature latest = %q", latest["temperature"].ID)
	}
}

func TestLatestVitalsTieBreaksToEarlierInserted(t *testing.T) {
	s := New()
	s.SetVitals([]VitalSign{
		{ID: "first", Type: "heart_rate", Timestamp: baseTime},
		{ID: "second", Type: "heart_rate", Timestamp: baseTime},
	})

	if got := s.LatestVitals()["heart_rate"].ID; got != "first" {
		t.Errorf("tie should keep earlier-inserted reading, got %q", got)
	}
}

func TestVitalTrendWindowAndOrder(t *testing.T) {
	s := New()
	fixedClock(s, baseTime)
	s.SetVitals([]VitalSign{
		{ID: "in-window-new", Type: "glucose", Timestamp: baseTime.Add(-24 * time.Hour)},
		{ID: "in-window-old", Type: "glucose", Timestamp: baseTime.Add(-6 * 24 * time.Hour)},
		{ID: "too-old", Type: "glucose", Timestamp: baseTime.Add(-8 * 24 * time.Hour)},
		{ID: "wrong-type", Type: "heart_rate", Timestamp: baseTime},
		{ID: "on-boundary", Type: "glucose", Timestamp: baseTime.AddDate(0, 0, -7)},
	})

	trend := s.VitalTrend("glucose", 7)
	if len(trend) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(trend))
	}
	// Oldest first; the boundary reading is included.
	if trend[0].ID != "on-boundary" || trend[1].ID != "in-window-old" || trend[2].ID != "in-window-new" {
		ids := []string{trend[0].ID, trend[1].ID, trend[2].ID}
		t.Errorf("unexpected order %v", ids)
	}
}

func TestVitalTrendEmptyType(t *testing.T) {
	s := New()
	fixedClock(s, baseTime)
	if got := s.VitalTrend("absent", 30); len(got) != 0 {
		t.Errorf("expected empty trend, got %d readings", len(got))
	}
}

func TestPendingLabs(t *testing.T) {
	s := New()
	s.SetLabResults([]LabResult{
		{ID: "l1", Status: LabPending},
		{ID: "l2", Status: LabNormal},
		{ID: "l3", Status: LabPending},
	})

	pending := s.PendingLabs()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending labs, got %d", len(pending))
	}
}

func TestAbnormalLabsIncludesCritical(t *testing.T) {
	s := New()
	s.SetLabResults([]LabResult{
		{ID: "l1", Status: LabNormal},
		{ID: "l2", Status: LabAbnormal},
		{ID: "l3", Status: LabCritical},
		{ID: "l4", Status: LabPending},
	})

	abnormal := s.AbnormalLabs()
	if len(abnormal) != 2 {
		t.Fatalf("expected 2, got %d", len(abnormal))
	}
	for _, l := range abnormal {
		if l.Status != LabAbnormal && l.Status != LabCritical {
			t.Errorf("unexpected status %q", l.Status)
		}
	}
}

func TestActiveMedications(t *testing.T) {
	s := New()
	s.SetMedications([]Medication{
		{ID: "m1", Status: MedicationActive},
		{ID: "m2", Status: MedicationCompleted},
		{ID: "m3", Status: MedicationOnHold},
		{ID: "m4", Status: MedicationDiscontinued},
	})

	active := s.ActiveMedications()
	if len(active) != 1 || active[0].ID != "m1" {
		t.Errorf("active = %+v", active)
	}
}

func TestUpcomingAppointmentsFilterAndSort(t *testing.T) {
	s := New()
	fixedClock(s, baseTime)
	s.SetAppointments([]Appointment{
		{ID: "past", DateTime: baseTime.Add(-time.Hour), Status: ApptCompleted},
		{ID: "later", DateTime: baseTime.Add(72 * time.Hour), Status: ApptScheduled},
		{ID: "cancelled", DateTime: baseTime.Add(24 * time.Hour), Status: ApptCancelled},
		{ID: "soon", DateTime: baseTime.Add(2 * time.Hour), Status: ApptConfirmed},
		{ID: "now", DateTime: baseTime, Status: ApptScheduled},
	})

	up := s.UpcomingAppointments()
	if len(up) != 2 {
		t.Fatalf("expected 2 upcoming, got %d", len(up))
	}
	if up[0].ID != "soon" || up[1].ID != "later" {
		t.Errorf("order = %s, %s", up[0].ID, up[1].ID)
	}
}

func TestActiveDiagnosesIncludesChronic(t *testing.T) {
	s := New()
	s.SetDiagnoses([]Diagnosis{
		{ID: "d1", Status: DiagnosisActive},
		{ID: "d2", Status: DiagnosisResolved},
		{ID: "d3", Status: DiagnosisChronic},
	})

	active := s.ActiveDiagnoses()
	if len(active) != 2 {
		t.Fatalf("expected 2, got %d", len(active))
	}
}

func TestCancerDiagnosesHeuristic(t *testing.T) {
	s := New()
	s.SetDiagnoses([]Diagnosis{
		{ID: "typed", Code: "X10", CancerType: "breast"},
		{ID: "coded", Code: "C50.9"},
		{ID: "neither", Code: "E11.9"},
		// The prefix check is case-sensitive and matches any C code.
		{ID: "lowercase", Code: "c50.9"},
	})

	cancer := s.CancerDiagnoses()
	if len(cancer) != 2 {
		t.Fatalf("expected 2, got %d", len(cancer))
	}
	if cancer[0].ID != "typed" || cancer[1].ID != "coded" {
		t.Errorf("got %s, %s", cancer[0].ID, cancer[1].ID)
	}
}

func TestOverdueScreeningsStrictlyBeforeNow(t *testing.T) {
	s := New()
	fixedClock(s, baseTime)
	s.SetScreenings([]CancerScreening{
		{ID: "overdue", NextDue: baseTime.Add(-24 * time.Hour)},
		{ID: "due-now", NextDue: baseTime},
		{ID: "future", NextDue: baseTime.Add(24 * time.Hour)},
	})

	overdue := s.OverdueScreenings()
	if len(overdue) != 1 || overdue[0].ID != "overdue" {
		t.Errorf("overdue = %+v", overdue)
	}
}

func TestActiveTreatments(t *testing.T) {
	s := New()
	s.SetTreatmentPlans([]TreatmentPlan{
		{ID: "t1", Status: TreatmentActive},
		{ID: "t2", Status: TreatmentPlanned},
		{ID: "t3", Status: TreatmentCompleted},
		{ID: "t4", Status: TreatmentSuspended},
	})

	active := s.ActiveTreatments()
	if len(active) != 1 || active[0].ID != "t1" {
		t.Errorf("active = %+v", active)
	}
}
