package mentorsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/ascend-bim/gradebook/core"
	"github.com/ascend-bim/gradebook/core/student"
	logsvc "github.com/ascend-bim/gradebook/services/logger"
)

type fakeGenerator struct {
	resp    *genai.GenerateContentResponse
	err     error
	prompts []string
}

func (g *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if txt, ok := p.(genai.Text); ok {
			g.prompts = append(g.prompts, string(txt))
		}
	}
	return g.resp, g.err
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func ana() student.Student {
	return student.Student{
		ID:                 "1",
		Name:               "Ana Ruiz",
		Project:            "Casa Jungla / FAMM Arquitectura",
		Grades:             map[string]float64{"p1": 3, "p2": 4, "final": 4.5},
		ParticipationBonus: null.Float64From(0.5),
		Comment:            null.StringFrom("Buen manejo de familias"),
	}
}

func TestAdvisor_StudentFeedback(t *testing.T) {
	ctx := context.Background()
	logger := logsvc.NewDiscardLogger()

	tests := []struct {
		name string
		gen  *fakeGenerator
		want string
	}{
		{name: "text", gen: &fakeGenerator{resp: textResponse(genai.Text("Buen progreso. "), genai.Text("Dream it, we BIM it"))}, want: "Buen progreso. Dream it, we BIM it"},
		{name: "api error", gen: &fakeGenerator{err: errors.New("quota")}, want: MsgFeedbackError},
		{name: "no candidates", gen: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, want: MsgFeedbackError},
		{name: "nil content", gen: &fakeGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}, want: MsgFeedbackError},
		{name: "blank text", gen: &fakeGenerator{resp: textResponse(genai.Text("  "))}, want: MsgFeedbackError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv := &Advisor{model: tt.gen, logger: logger}
			assert.Equal(t, tt.want, adv.StudentFeedback(ctx, ana()))
			require.Len(t, tt.gen.prompts, 1)
		})
	}
}

func TestAdvisor_noKey(t *testing.T) {
	conf := &core.Config{}
	conf.AI.KeyVars = core.DefaultAIKeyVars

	adv, err := NewAdvisor(context.Background(), conf, logsvc.NewDiscardLogger())
	require.NoError(t, err)
	defer adv.Close()

	assert.Equal(t, MsgNoKey, adv.StudentFeedback(context.Background(), ana()))
	assert.Equal(t, MsgNoKey, adv.ClassReport(context.Background(), []student.Student{ana()}))
}

func TestAdvisor_ClassReport(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{resp: textResponse(genai.Text("Reporte"))}
	adv := &Advisor{model: gen, logger: logsvc.NewDiscardLogger()}

	luis := student.Student{Name: "Luis", Project: "Casa B", Grades: map[string]float64{"p1": 2}}
	assert.Equal(t, "Reporte", adv.ClassReport(ctx, []student.Student{ana(), luis}))

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Director Académico de Ascend")
	assert.Contains(t, prompt, "Ana Ruiz (Proyecto: Casa Jungla / FAMM Arquitectura): [Parcial 1: 3.0, Parcial 2: 4.0, Entrega Final: 4.5]")
	assert.Contains(t, prompt, "Luis (Proyecto: Casa B): [Parcial 1: 2.0, Parcial 2: 0.0, Entrega Final: 0.0]")

	gen.err = errors.New("down")
	assert.Equal(t, MsgReportError, adv.ClassReport(ctx, []student.Student{ana()}))
}

func TestStudentPrompt(t *testing.T) {
	prompt := studentPrompt(ana())
	assert.Contains(t, prompt, "Analiza las notas del estudiante Ana Ruiz (Proyecto: Casa Jungla / FAMM Arquitectura)")
	assert.Contains(t, prompt, "Calificaciones por entrega: Parcial 1: 3.0, Parcial 2: 4.0, Entrega Final: 4.5")
	assert.Contains(t, prompt, "Bono de participación sobre la Entrega Final: 0.5")
	assert.Contains(t, prompt, "Comentario del docente: Buen manejo de familias")
	assert.Contains(t, prompt, `un proyecto como "Casa Jungla / FAMM Arquitectura"`)
	assert.Contains(t, prompt, `"Dream it, we BIM it"`)
	assert.Contains(t, prompt, "Máximo 150 palabras.")

	plain := studentPrompt(student.Student{Name: "Luis", Project: "Casa B"})
	assert.NotContains(t, plain, "Bono de participación")
	assert.NotContains(t, plain, "Comentario del docente")
	assert.Contains(t, plain, "Promedio ponderado: 0.0")
}
