package domain

import "strings"

// Outcome es el resultado de una ronda de Bac Bo.
type Outcome string

const (
	Banker Outcome = "B"
	Player Outcome = "P"
	Tie    Outcome = "T"
)

// Outcomes lista el alfabeto en orden canónico. El orden se usa para desempatar rankings.
var Outcomes = [3]Outcome{Banker, Player, Tie}

// NoPick es la etiqueta persistida cuando un modo se abstiene.
const NoPick = "N/A"

// Valid devuelve true si o pertenece al alfabeto.
func (o Outcome) Valid() bool {
	return o == Banker || o == Player || o == Tie
}

// Label devuelve la etiqueta larga (BANKER / PLAYER / TIE).
func (o Outcome) Label() string {
	switch o {
	case Banker:
		return "BANKER"
	case Player:
		return "PLAYER"
	case Tie:
		return "TIE"
	}
	return NoPick
}

func (o Outcome) String() string { return string(o) }

// ParseOutcome acepta el símbolo o la etiqueta larga, sin distinguir mayúsculas.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BANKER":
		return Banker, true
	case "P", "PLAYER":
		return Player, true
	case "T", "TIE":
		return Tie, true
	}
	return "", false
}

// OutcomeFromResult traduce el campo "resultado" de la API (Banker / Player / Tie).
func OutcomeFromResult(resultado string) (Outcome, bool) {
	return ParseOutcome(resultado)
}

// Sequence es una secuencia de resultados, del más viejo al más reciente.
type Sequence []Outcome

// Tokens devuelve la secuencia como tokens de un carácter.
func (s Sequence) Tokens() []string {
	out := make([]string, len(s))
	for i, o := range s {
		out[i] = string(o)
	}
	return out
}

// String serializa la secuencia como tokens separados por espacio ("B P T").
func (s Sequence) String() string {
	return strings.Join(s.Tokens(), " ")
}

// Tail devuelve los últimos n elementos (o toda la secuencia si es más corta).
func (s Sequence) Tail(n int) Sequence {
	if n <= 0 {
		return Sequence{}
	}
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
