package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type diagnoseRequest struct {
	Symptoms string `json:"symptoms"`
	Age      scalar `json:"age"`
	Gender   scalar `json:"gender"`
}

// scalar accepts any JSON scalar and keeps its text form. null, false and
// blank strings decode to the empty value, meaning "not provided".
type scalar string

func (s *scalar) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = scalar(strings.TrimSpace(x))
	case float64:
		*s = scalar(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		if x {
			*s = "true"
		} else {
			*s = ""
		}
	default:
		return fmt.Errorf("expected a scalar, got %T", v)
	}
	return nil
}
