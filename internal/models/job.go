package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// JobPosting is one job extracted from a careers page. Every field is treated
// as opaque text; the model decides what goes in it.
type JobPosting struct {
	Role        Text      `json:"role"`
	Experience  Text      `json:"experience"`
	Skills      SkillList `json:"skills"`
	Description Text      `json:"description"`
	Company     Text      `json:"company,omitempty"`
	Location    Text      `json:"location,omitempty"`
}

// String renders the job the way it is embedded into the email prompt.
func (j JobPosting) String() string {
	b, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return string(j.Role)
	}
	return string(b)
}

// Text accepts any JSON scalar, array or object and keeps it as text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if it != "" {
				parts = append(parts, string(it))
			}
		}
		*t = Text(strings.Join(parts, ", "))
	default:
		// numbers, bools and objects keep their JSON form
		*t = Text(data)
	}
	return nil
}

// SkillList accepts a list of anything or a single comma separated string.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '[' {
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(SkillList, 0, len(items))
		for _, it := range items {
			if v := strings.TrimSpace(string(it)); v != "" {
				out = append(out, v)
			}
		}
		*s = out
		return nil
	}

	var one Text
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	var out SkillList
	for _, part := range strings.Split(string(one), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

// JobKey identifies a composed email inside a session.
func JobKey(url string, index int) string {
	return url + "_" + strconv.Itoa(index)
}
