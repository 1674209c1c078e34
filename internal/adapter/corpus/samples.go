package corpus

import "medrag/internal/domain"

// SampleDocuments is the built-in medical knowledge fallback used when no
// corpus file is available. Keeping the service queryable without data files
// is a deliberate availability feature, not a test fixture.
func SampleDocuments() []domain.Document {
	return []domain.Document{
		{ID: 0, Content: "Diabetes is a chronic condition characterized by high blood sugar levels. Symptoms include frequent urination, increased thirst, unexplained weight loss, fatigue, blurred vision, and slow-healing sores."},
		{ID: 1, Content: "Hypertension, or high blood pressure, is a condition where the force of blood against artery walls is too high. It often has no symptoms but can lead to serious health issues like heart disease and stroke."},
		{ID: 2, Content: "Asthma is a chronic respiratory condition that affects the airways in the lungs, causing them to narrow and produce excess mucus, making breathing difficult."},
		{ID: 3, Content: "Heart disease includes various conditions that affect the heart's structure and function, including coronary artery disease, heart attacks, and heart failure."},
		{ID: 4, Content: "Arthritis is inflammation of one or more joints, causing pain, stiffness, and reduced range of motion that typically worsens with age."},
	}
}

// SampleTrials is the built-in clinical trials fallback.
func SampleTrials() []domain.TrialRecord {
	return []domain.TrialRecord{
		{
			ID:           0,
			Title:        "Effects of Insulin Dosage on Diabetes Management",
			Condition:    "Type 2 Diabetes",
			Intervention: "Insulin Therapy",
			Eligibility:  "Adults aged 30-65 with Type 2 Diabetes",
		},
		{
			ID:           1,
			Title:        "Evaluation of New Antihypertensive Medication",
			Condition:    "Hypertension",
			Intervention: "Novel Calcium Channel Blocker",
			Eligibility:  "Adults with blood pressure >140/90 mmHg",
		},
		{
			ID:           2,
			Title:        "Bronchodilator Efficacy Study",
			Condition:    "Asthma",
			Intervention: "Long-acting Bronchodilator",
			Eligibility:  "Patients aged 18-70 with moderate to severe asthma",
		},
	}
}
