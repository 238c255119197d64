package model

import (
	"bytes"
	"math"
	"strconv"
)

var jsonNull = []byte("null")

// Ratio is a quotient that may be undefined. An undefined ratio encodes as
// JSON null and is never reported as zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// RatioOf returns num/den when den is strictly positive and the quotient is
// finite, otherwise an undefined ratio.
func RatioOf(num, den float64) Ratio {
	if !(den > 0) {
		return Ratio{}
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Ratio{}
	}
	return Ratio{Value: v, Defined: true}
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return jsonNull, nil
	}
	return strconv.AppendFloat(nil, r.Value, 'g', -1, 64), nil
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		*r = Ratio{}
		return nil
	}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil {
		return err
	}
	*r = Ratio{Value: v, Defined: true}
	return nil
}

func (r Ratio) String() string {
	if !r.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.Value, 'f', 3, 64)
}
