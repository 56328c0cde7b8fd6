package mentorsvc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ascend-bim/gradebook/core/student"
)

func formatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', 1, 64)
}

func gradesList(s student.Student) string {
	parts := make([]string, 0, len(student.Deliveries))
	for _, d := range student.Deliveries {
		parts = append(parts, d.Name+": "+formatGrade(s.Grade(d.ID)))
	}
	return strings.Join(parts, ", ")
}

func studentPrompt(s student.Student) string {
	var extra strings.Builder
	if s.ParticipationBonus.Valid && s.ParticipationBonus.Float64 > 0 {
		fmt.Fprintf(&extra, "\nBono de participación sobre la Entrega Final: %s", formatGrade(s.ParticipationBonus.Float64))
	}
	if c := strings.TrimSpace(s.Comment.String); s.Comment.Valid && c != "" {
		fmt.Fprintf(&extra, "\nComentario del docente: %s", c)
	}

	return fmt.Sprintf(`Eres un experto mentor en metodología BIM de "Ascend".
Analiza las notas del estudiante %[1]s (Proyecto: %[2]s).
Las calificaciones están en una escala de 0.0 a 5.0 (siendo 3.0 la nota mínima de aprobación).

Calificaciones por entrega: %[3]s%[4]s
Promedio ponderado: %[5]s

Genera un análisis constructivo:
1. Si hay una tendencia al alza entre Parcial 1 y la Entrega Final, felicita el progreso.
2. Si las notas son bajas (< 3.5), da consejos técnicos de optimización de modelos.
3. Menciona algo específico sobre la calidad que se espera en un proyecto como "%[2]s".
4. Cierra con la frase: "Dream it, we BIM it".

Máximo 150 palabras.`,
		s.Name, s.Project, gradesList(s), extra.String(), formatGrade(student.Average(s)))
}

func classPrompt(students []student.Student) string {
	lines := make([]string, 0, len(students))
	for _, s := range students {
		lines = append(lines, fmt.Sprintf("%s (Proyecto: %s): [%s]", s.Name, s.Project, gradesList(s)))
	}

	return fmt.Sprintf(`Como Director Académico de Ascend, evalúa el progreso del grupo en escala 0.0-5.0.
%s

Identifica:
- El promedio general del salón.
- Cuál de las tres entregas fue la más difícil para el grupo.
- Recomendaciones para la siguiente cohorte basadas en estos resultados.`, strings.Join(lines, "\n"))
}
