package employee

// Record is one employee entry from the dataset. Every nested field besides
// ID is optional; synthesis tolerates any of them being absent.
type Record struct {
	ID               string           `json:"id"`
	PersonalInfo     PersonalInfo     `json:"personalInfo"`
	ProfessionalInfo ProfessionalInfo `json:"professionalInfo"`
	Skills           Skills           `json:"skills"`
	Distinctions     []Project        `json:"distinctions"`
	WorkExps         []WorkExperience `json:"workExps"`
	BusinessKeywords []string         `json:"businessKeywords"`
}

type PersonalInfo struct {
	Name string `json:"name"`
}

type ProfessionalInfo struct {
	Department        string   `json:"department"`
	Position          string   `json:"position"`
	AcademicMajor     string   `json:"academic_major"`
	DegreeLast        string   `json:"degree_last"`
	JoinDate          string   `json:"joinDate"`
	YearsOfExperience *float64 `json:"yearsOfExperience"`
}

type Skills struct {
	Technical []TechnicalSkill `json:"technical"`
	Soft      []string         `json:"soft"`
}

type TechnicalSkill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type Project struct {
	Name                 string   `json:"name"`
	Role                 string   `json:"role"`
	TechnologiesOrSkills []string `json:"technologies_or_skills"`
	Achievements         []string `json:"achievements"`
}

type WorkExperience struct {
	Name         string `json:"name"`
	DurationFrom string `json:"duration_from"`
	DurationTo   string `json:"duration_to"`
}

// Profile is the synthesized, retrievable view of one Record. Immutable
// once the index that owns it is built.
type Profile struct {
	ID          string
	Name        string
	Position    string
	Skills      []string
	Experience  float64
	Description string
	Record      Record
}
