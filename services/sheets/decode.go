package sheetsvc

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/ascend-bim/gradebook/core/student"
)

// flexString accepts JSON strings and numbers; spreadsheets turn "1" into 1.
type flexString string

func (fs *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*fs = flexString(n.String())
	return nil
}

// flexFloat accepts JSON numbers and numeric strings ("4,5" included). Blank means 0.
type flexFloat float64

func (ff *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ff = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
		if s == "" {
			*ff = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*ff = flexFloat(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*ff = flexFloat(f)
	return nil
}

type sheetStudent struct {
	ID                 flexString           `json:"id"`
	Name               string               `json:"name"`
	Project            string               `json:"project"`
	Grades             map[string]flexFloat `json:"grades"`
	ParticipationBonus *flexFloat           `json:"participationBonus"`
	AIFeedback         null.String          `json:"aiFeedback"`
	Comment            null.String          `json:"comment"`
}

func (ss sheetStudent) toStudent() student.Student {
	s := student.Student{
		ID:         string(ss.ID),
		Name:       ss.Name,
		Project:    ss.Project,
		Grades:     make(map[string]float64, len(ss.Grades)),
		AIFeedback: ss.AIFeedback,
		Comment:    ss.Comment,
	}
	for id, g := range ss.Grades {
		s.Grades[id] = float64(g)
	}
	if ss.ParticipationBonus != nil {
		s.ParticipationBonus = null.Float64From(float64(*ss.ParticipationBonus))
	}
	return s
}

// decodeRoster returns false when data is not a JSON array of student objects.
func decodeRoster(data []byte) ([]student.Student, bool) {
	var raw []sheetStudent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	if raw == nil { // "null"
		return nil, false
	}
	students := make([]student.Student, 0, len(raw))
	for _, ss := range raw {
		students = append(students, ss.toStudent())
	}
	return students, true
}
