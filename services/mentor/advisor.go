package mentorsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/ascend-bim/gradebook/core"
	"github.com/ascend-bim/gradebook/core/student"
)

// fallbacks
const (
	MsgNoKey         = "La clave de la API de Gemini no está configurada."
	MsgFeedbackError = "No pudimos generar el análisis técnico. Revisa la conexión."
	MsgReportError   = "Error al procesar el reporte grupal."
)

// generator is implemented by *genai.GenerativeModel.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Advisor asks Gemini for written feedback. It never fails: errors are logged and replaced by fallback text.
type Advisor struct {
	model  generator
	client *genai.Client
	logger core.Logger
}

var _ student.Advisor = (*Advisor)(nil)

// NewAdvisor connects to Gemini with the key resolved in conf.
// Without a key the Advisor only answers with MsgNoKey.
func NewAdvisor(ctx context.Context, conf *core.Config, logger core.Logger) (*Advisor, error) {
	adv := &Advisor{logger: logger}
	if conf.AI.APIKey == "" {
		logger.Warn(fmt.Sprintf("no Gemini API key found in %s; AI feedback disabled", strings.Join(conf.AI.KeyVars, ", ")))
		return adv, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(conf.AI.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating Gemini client")
	}
	adv.client = client
	adv.model = client.GenerativeModel(conf.AI.Model)
	logger.Info(fmt.Sprintf("Gemini client initialized: model %q, key from %s", conf.AI.Model, conf.AI.KeyVar))
	return adv, nil
}

func (adv *Advisor) Close() error {
	if adv.client == nil {
		return nil
	}
	return adv.client.Close()
}

func (adv *Advisor) StudentFeedback(ctx context.Context, s student.Student) string {
	return adv.generate(ctx, studentPrompt(s), MsgFeedbackError)
}

func (adv *Advisor) ClassReport(ctx context.Context, students []student.Student) string {
	return adv.generate(ctx, classPrompt(students), MsgReportError)
}

func (adv *Advisor) generate(ctx context.Context, prompt, fallback string) string {
	if adv.model == nil {
		return MsgNoKey
	}
	resp, err := adv.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		adv.logger.Error(fmt.Sprintf("generating content: %v", err), err)
		return fallback
	}
	text := responseText(resp)
	if text == "" {
		adv.logger.Warn("generating content: empty response")
		return fallback
	}
	return text
}

// responseText joins the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}
	return ""
}
