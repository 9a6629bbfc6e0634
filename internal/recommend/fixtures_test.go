package recommend

import (
	"edupath/internal/domain"
)

func ptr(v float64) *float64 {
	return &v
}

func testBank() domain.QuestionBank {
	return domain.QuestionBank{
		{
			ID: "academic_1", Category: domain.CategoryAcademic, Type: domain.QuestionSingle,
			Prompt: "How would you describe your academic performance?",
			Options: []domain.Option{
				{Value: "excellent", Label: "Excellent", ScoreDeltas: map[string]float64{"academic": 5, "analytical": 4}},
				{Value: "good", Label: "Good", ScoreDeltas: map[string]float64{"academic": 3, "analytical": 2}},
				{Value: "average", Label: "Average", ScoreDeltas: map[string]float64{"academic": 2}},
				{Value: "below_average", Label: "Below average", ScoreDeltas: map[string]float64{"practical": 2}},
			},
		},
		{
			ID: "academic_2", Category: domain.CategoryAcademic, Type: domain.QuestionMultiple,
			Prompt: "Which subjects do you enjoy most?",
			Options: []domain.Option{
				{Value: "mathematics", Label: "Mathematics", ScoreDeltas: map[string]float64{"analytical": 5, "logical": 5, "science": 4}},
				{Value: "science", Label: "Science", ScoreDeltas: map[string]float64{"science": 5, "analytical": 4, "research": 3}},
				{Value: "english", Label: "English", ScoreDeltas: map[string]float64{"communication": 5, "creative": 3}},
				{Value: "economics", Label: "Economics", ScoreDeltas: map[string]float64{"business": 5, "analytical": 3}},
			},
		},
		{
			ID: "future_1", Category: domain.CategoryFuture, Type: domain.QuestionSingle,
			Prompt: "Which field do you see yourself in?",
			Options: []domain.Option{
				{Value: "engineering", Label: "Engineering", ScoreDeltas: map[string]float64{"technical": 5, "analytical": 4, "science": 4, "engineering": 5}},
				{Value: "medicine", Label: "Medicine", ScoreDeltas: map[string]float64{"service": 5, "science": 4, "research": 3, "medicine": 5}},
				{Value: "business", Label: "Business", ScoreDeltas: map[string]float64{"business": 5, "leadership": 4, "commerce": 5}},
			},
		},
		{
			ID: "family_income", Category: domain.CategoryFinancial, Type: domain.QuestionSingle,
			Prompt: "What is your annual family income?",
			Options: []domain.Option{
				{Value: "below_2l", Label: "Below 2 lakh", PreferenceTags: map[string]any{"budget": "low"}},
				{Value: "2l_5l", Label: "2 to 5 lakh", PreferenceTags: map[string]any{"budget": "medium"}},
				{Value: "above_10l", Label: "Above 10 lakh", PreferenceTags: map[string]any{"budget": "high"}},
			},
		},
		{
			ID: "preference_2", Category: domain.CategoryPreference, Type: domain.QuestionSingle,
			Prompt: "How important is a scholarship for you?",
			Options: []domain.Option{
				{Value: "very_important", Label: "Very important", PreferenceTags: map[string]any{"scholarship_priority": 5.0}},
				{Value: "not_important", Label: "Not important", PreferenceTags: map[string]any{"scholarship_priority": 1.0}},
			},
		},
		{
			ID: "location_1", Category: domain.CategoryLocation, Type: domain.QuestionSingle,
			Prompt: "Where would you like to study?",
			Options: []domain.Option{
				{Value: "tamil_nadu", Label: "Tamil Nadu", PreferenceTags: map[string]any{"location": "tamil_nadu"}},
				{Value: "anywhere", Label: "Anywhere", PreferenceTags: map[string]any{"location": "any"}},
			},
		},
		{
			ID: "location_2", Category: domain.CategoryLocation, Type: domain.QuestionSingle,
			Prompt:    "Which city do you prefer?",
			DependsOn: &domain.Condition{QuestionID: "location_1", Equals: "tamil_nadu"},
			Options: []domain.Option{
				{Value: "chennai", Label: "Chennai", PreferenceTags: map[string]any{"city": "chennai"}},
				{Value: "coimbatore", Label: "Coimbatore", PreferenceTags: map[string]any{"city": "coimbatore"}},
			},
		},
	}
}

func testInventory() domain.Inventory {
	return domain.Inventory{
		Colleges: []domain.College{
			{ID: "c1", Name: "Anna Engineering College", State: "Tamil Nadu", District: "Chennai", Type: "Public", Courses: []string{"B.Tech CSE", "B.E Mechanical"}, AnnualFee: ptr(80000), Cutoff: ptr(92), ScholarshipAvailable: true},
			{ID: "c2", Name: "Coimbatore Institute of Technology", State: "Tamil Nadu", District: "Coimbatore", Type: "Private", Courses: []string{"B.Tech IT"}, AnnualFee: ptr(250000), Cutoff: ptr(85), ScholarshipAvailable: false},
			{ID: "c3", Name: "Madras Science College", State: "Tamil Nadu", District: "Chennai", Type: "Public", Courses: []string{"B.Sc Physics"}, AnnualFee: ptr(40000), Cutoff: ptr(75), ScholarshipAvailable: true},
			{ID: "c4", Name: "Pune Tech Institute", State: "Maharashtra", District: "Pune", Type: "Private", Courses: []string{"B.Tech Civil"}, AnnualFee: ptr(90000), Cutoff: ptr(88), ScholarshipAvailable: true},
			{ID: "c5", Name: "Delhi Commerce College", State: "Delhi", District: "New Delhi", Type: "Public", Courses: []string{"B.Com Honours", "BBA"}, AnnualFee: ptr(30000), Cutoff: ptr(95), ScholarshipAvailable: true},
			{ID: "c6", Name: "Kerala Engineering Academy", State: "Kerala", District: "Kochi", Type: "Public", Courses: []string{"B.Tech ECE"}, AnnualFee: ptr(60000), ScholarshipAvailable: true},
			{ID: "c7", Name: "Bangalore Polytechnic", State: "Karnataka", District: "Bengaluru", Type: "Public", Courses: []string{"Diploma in Mechanical"}, AnnualFee: ptr(20000), Cutoff: ptr(50), ScholarshipAvailable: true},
			{ID: "c8", Name: "Hyderabad Science Institute", State: "Telangana", District: "Hyderabad", Type: "Private", Courses: []string{"B.Sc Chemistry", "B.Tech AI"}, AnnualFee: ptr(120000), Cutoff: ptr(82), ScholarshipAvailable: true},
		},
		Courses: []domain.Course{
			{ID: "k1", Name: "Computer Science Engineering", Degree: "B.Tech", Traits: []string{"analytical", "technical", "engineering"}, AverageFee: ptr(150000), MinPercentage: ptr(80)},
			{ID: "k2", Name: "Physics", Degree: "B.Sc", Traits: []string{"science", "research"}, AverageFee: ptr(40000), MinPercentage: ptr(60), ScholarshipAvailable: true},
			{ID: "k3", Name: "Accounting", Degree: "B.Com", Traits: []string{"business", "commerce"}, AverageFee: ptr(30000), MinPercentage: ptr(55)},
			{ID: "k4", Name: "Mechanical Engineering", Degree: "B.E", Traits: []string{"technical", "engineering"}, AverageFee: ptr(140000), MinPercentage: ptr(85)},
		},
		Scholarships: []domain.Scholarship{
			{ID: "s1", Name: "National Merit Scholarship", Provider: "Government of India", Streams: []string{"all"}, Amount: 50000, MinPercentage: ptr(85)},
			{ID: "s2", Name: "Tamil Nadu Engineering Grant", Provider: "Government of Tamil Nadu", State: "Tamil Nadu", Streams: []string{"science"}, Amount: 30000, MinPercentage: ptr(80)},
			{ID: "s3", Name: "Commerce Talent Award", Provider: "Private Trust", Streams: []string{"commerce"}, Amount: 20000},
		},
	}
}
