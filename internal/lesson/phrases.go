package lesson

import (
	"fmt"

	"github.com/comalice/countlesson/internal/narration"
)

// Messages shown on the panel.
const (
	MsgInvalid        = "Escribe un número de 0 a 18."
	MsgCorrect        = "¡Correcto!"
	MsgFinished       = "¡Lección terminada!"
	MsgContinue       = "Continuemos."
	MsgAdHocDone      = "Toca “Volver a la lección” para continuar."
	MsgExampleDone    = "Cuando estés listo, pasa al siguiente ejercicio."
	SkipLabelDefault  = "Omitir ejemplo"
	SkipLabelReturn   = "Volver a la lección"
	ExampleToggleText = "Ver ejemplo"
)

// Spoken lines.
const (
	sayCorrect  = "Correcto."
	sayThen     = "Entonces,"
	sayQuestion = "¿Cuánto es"
	sayPlus     = "más"
)

func sideName(s Side) string {
	if s == Left {
		return "izquierda"
	}
	return "derecha"
}

// QuantitySentence describes how many tokens of color sit on side.
func QuantitySentence(side Side, n int, color Color) string {
	if n == 1 {
		return fmt.Sprintf("A la %s hay un círculo %s.", sideName(side), color.Singular)
	}
	return fmt.Sprintf("A la %s hay %d círculos %s.", sideName(side), n, color.Plural)
}

// overMessage is both shown and spoken.
func overMessage(n int) string { return fmt.Sprintf("Te pasaste por %d.", n) }

func underMessage(n int) string { return fmt.Sprintf("Faltan %d.", n) }

func underSpoken(n int) string { return fmt.Sprintf("Te faltan %d.", n) }

func plusWord(n int) string { return sayPlus + " " + narration.NumberWord(n) }

func isWord(n int) string { return "es " + narration.NumberWord(n) }

// LessonLabel is "Ejercicio i/N", with " (Ejemplo)" while an example plays.
func LessonLabel(index, length int, example bool) string {
	label := fmt.Sprintf("Ejercicio %d/%d", index+1, length)
	if example {
		label += " (Ejemplo)"
	}
	return label
}
