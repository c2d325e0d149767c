package tui

import (
	"fmt"
	"strconv"
	"strings"

	"admitcast/internal/profile"
	"admitcast/internal/wizard"

	"github.com/charmbracelet/bubbles/textinput"
)

// field is one row of an input step: either free text or a fixed choice.
type field struct {
	label   string
	hint    string
	input   textinput.Model
	options []string
	choice  int // -1 until picked
}

func textField(label, hint, value string) field {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = hint
	in.CharLimit = 200
	in.SetValue(value)
	return field{label: label, hint: hint, input: in, choice: -1}
}

func choiceField(label string, options []string, value string) field {
	f := field{label: label, options: options, choice: -1}
	for i, o := range options {
		if o == value {
			f.choice = i
		}
	}
	return f
}

func (f *field) isChoice() bool { return len(f.options) > 0 }

func (f *field) value() string {
	if f.isChoice() {
		if f.choice < 0 {
			return ""
		}
		return f.options[f.choice]
	}
	return f.input.Value()
}

func (f *field) cycle(delta int) {
	if !f.isChoice() {
		return
	}
	n := len(f.options)
	if f.choice < 0 {
		if delta > 0 {
			f.choice = 0
		} else {
			f.choice = n - 1
		}
		return
	}
	f.choice = ((f.choice+delta)%n + n) % n
}

var yesNo = []string{"No", "Yes"}

// fieldsFor builds the rows of an input step, prefilled from p.
func fieldsFor(state wizard.State, p profile.Profile) []field {
	switch state {
	case wizard.StateAcademics:
		return []field{
			textField("Unweighted GPA", "e.g. 3.85 (max 4.0)", fmtFloat(p.GPA)),
			textField("Weighted GPA", "e.g. 4.20", fmtFloat(p.WeightedGPA)),
			textField("AP courses", "number taken", fmtInt(p.APCourses)),
			textField("IB courses", "number taken", fmtInt(p.IBCourses)),
			textField("Class rank", "e.g. 12", fmtInt(p.ClassRank)),
			textField("Class size", "e.g. 450", fmtInt(p.ClassSize)),
		}
	case wizard.StateScores:
		return []field{
			textField("SAT score", "400-1600", fmtInt(p.SATScore)),
			textField("ACT score", "1-36", fmtInt(p.ACTScore)),
		}
	case wizard.StateExtracurriculars:
		var lead, other []string
		for _, a := range p.Extracurriculars {
			if a.Leadership {
				lead = append(lead, a.Name)
			} else {
				other = append(other, a.Name)
			}
		}
		return []field{
			textField("Leadership roles", "comma separated", strings.Join(lead, ", ")),
			textField("Other activities", "comma separated", strings.Join(other, ", ")),
		}
	case wizard.StateDemographics:
		firstGen := yesNo[0]
		if p.Demographics.FirstGen {
			firstGen = yesNo[1]
		}
		f := []field{
			choiceField("Ethnicity", profile.EthnicityOptions, p.Demographics.Ethnicity),
			choiceField("State", profile.StateOptions, p.Demographics.State),
			choiceField("Household income", profile.IncomeOptions, p.Demographics.Income),
			choiceField("First-generation", yesNo, firstGen),
		}
		return f
	}
	return nil
}

// commit writes the rows of the current step into the session.
func commit(s *wizard.Session, state wizard.State, fields []field) {
	val := func(i int) string {
		if i < len(fields) {
			return fields[i].value()
		}
		return ""
	}
	switch state {
	case wizard.StateAcademics:
		s.SetAcademics(profile.AcademicsForm{
			GPA:         val(0),
			WeightedGPA: val(1),
			APCourses:   val(2),
			IBCourses:   val(3),
			ClassRank:   val(4),
			ClassSize:   val(5),
		}.Parse())
	case wizard.StateScores:
		s.SetScores(profile.ScoresForm{SATScore: val(0), ACTScore: val(1)}.Parse())
	case wizard.StateExtracurriculars:
		s.SetExtracurriculars(profile.ExtracurricularsForm{Leadership: val(0), Activities: val(1)}.Parse())
	case wizard.StateDemographics:
		s.SetDemographics(profile.Demographics{
			Ethnicity: val(0),
			State:     val(1),
			Income:    val(2),
			FirstGen:  val(3) == yesNo[1],
		})
	}
}

// editFields are the rows the results screen can change in place.
func editFields(p profile.Profile) []field {
	return []field{
		textField("Unweighted GPA", "e.g. 3.85 (max 4.0)", fmtFloat(p.GPA)),
		textField("SAT score", "400-1600", fmtInt(p.SATScore)),
	}
}

// editUpdate turns the edit rows into a profile update. Empty rows are left
// out of the update; text that is not a number is an error.
func editUpdate(fields []field) (profile.Update, error) {
	var u profile.Update
	if len(fields) < 2 {
		return u, nil
	}
	if text := strings.TrimSpace(fields[0].value()); text != "" {
		if u.GPA = profile.ParseFloat(text); u.GPA == nil {
			return u, fmt.Errorf("GPA %q is not a number", text)
		}
	}
	if text := strings.TrimSpace(fields[1].value()); text != "" {
		if u.SATScore = profile.ParseInt(text); u.SATScore == nil {
			return u, fmt.Errorf("SAT score %q is not a whole number", text)
		}
	}
	return u, nil
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
