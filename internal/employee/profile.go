package employee

import (
	"fmt"
	"strconv"
	"strings"
)

const notAvailable = "N/A"

// Synthesize derives the natural-language profile for one record. It is a
// pure transform and never fails: absent fields render as "" or "N/A".
func Synthesize(rec Record) Profile {
	technical := technicalSkills(rec.Skills.Technical)
	soft := strings.Join(rec.Skills.Soft, ", ")
	projects := projectSummary(rec.Distinctions)
	workExps := workExperienceSummary(rec.WorkExps)
	keywords := strings.Join(rec.BusinessKeywords, ", ")

	description := fmt.Sprintf(
		"%s works in the %s department as a %s. "+
			"They majored in %s and hold a %s degree, joined on %s, and have %s years of experience to date. "+
			"Key technical skills are %s, and soft skills include %s. "+
			"Major work experience includes %s. "+
			"Major projects include %s. "+
			"Related business keywords are %s.",
		orNA(rec.PersonalInfo.Name),
		orNA(rec.ProfessionalInfo.Department),
		orNA(rec.ProfessionalInfo.Position),
		orNA(rec.ProfessionalInfo.AcademicMajor),
		orNA(rec.ProfessionalInfo.DegreeLast),
		orNA(rec.ProfessionalInfo.JoinDate),
		yearsString(rec.ProfessionalInfo.YearsOfExperience),
		technical,
		soft,
		workExps,
		projects,
		keywords,
	)

	return Profile{
		ID:          rec.ID,
		Name:        rec.PersonalInfo.Name,
		Position:    rec.ProfessionalInfo.Position,
		Skills:      skillNames(rec.Skills.Technical),
		Experience:  years(rec.ProfessionalInfo.YearsOfExperience),
		Description: description,
		Record:      rec,
	}
}

// SynthesizeAll maps every record to its profile, preserving order.
func SynthesizeAll(recs []Record) []Profile {
	profiles := make([]Profile, len(recs))
	for i, rec := range recs {
		profiles[i] = Synthesize(rec)
	}
	return profiles
}

// technicalSkills renders "<name> (<proficiency|N/A>)" entries, comma-joined.
func technicalSkills(skills []TechnicalSkill) string {
	parts := make([]string, len(skills))
	for i, s := range skills {
		parts[i] = fmt.Sprintf("%s (%s)", s.Name, orNA(s.Proficiency))
	}
	return strings.Join(parts, ", ")
}

func skillNames(skills []TechnicalSkill) []string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return names
}

// projectSummary renders each distinction as
// "<name> (<role|N/A>, tech: ..., outcomes: ...)", semicolon-joined.
func projectSummary(projects []Project) string {
	parts := make([]string, len(projects))
	for i, p := range projects {
		parts[i] = fmt.Sprintf("%s (%s, tech: %s, outcomes: %s)",
			p.Name,
			orNA(p.Role),
			strings.Join(p.TechnologiesOrSkills, ", "),
			strings.Join(p.Achievements, ", "),
		)
	}
	return strings.Join(parts, "; ")
}

// workExperienceSummary renders "<name> (period: <from> ~ <to>)" entries,
// semicolon-joined.
func workExperienceSummary(exps []WorkExperience) string {
	parts := make([]string, len(exps))
	for i, e := range exps {
		parts[i] = fmt.Sprintf("%s (period: %s ~ %s)", e.Name, e.DurationFrom, e.DurationTo)
	}
	return strings.Join(parts, "; ")
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func yearsString(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func years(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
