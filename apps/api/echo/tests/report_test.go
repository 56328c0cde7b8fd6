package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/ascend-bim/gradebook/apps/api/echo"
	"github.com/ascend-bim/gradebook/tests"
)

func Test_reportApi_classReport(t *testing.T) {
	testutil.ResetRoster(t, repo)

	runHTTPTests(t, []httpTest{
		{
			name: "empty roster", method: http.MethodPost, path: "/api/reports/class",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "the roster has no students"}),
		},
	})

	testutil.CreateStudent(t, repo, "Ana", "Casa A", 4, 4, 4)
	runHTTPTests(t, []httpTest{
		{
			name: "report", method: http.MethodPost, path: "/api/reports/class",
			wantCode: http.StatusOK, wantData: marchallObj(t, ReportResponse{Report: "Reporte grupal"}),
		},
	})
}

func Test_reportApi_mailClassReport(t *testing.T) {
	testutil.ResetRoster(t, repo)
	testutil.CreateStudent(t, repo, "Ana", "Casa A", 4, 4, 4)
	sentBefore := len(mailSvc.SentMessages())

	runHTTPTests(t, []httpTest{
		{
			name: "invalid email", method: http.MethodPost, path: "/api/reports/class/email",
			body:     []byte(`{"to": ["not-an-email"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "explicit recipients", method: http.MethodPost, path: "/api/reports/class/email",
			body:     []byte(`{"to": [" Docente@Ascend.test "]}`),
			wantCode: http.StatusAccepted, wantData: marchallObj(t, ReportResponse{Report: "Reporte grupal"}),
		},
		{
			name: "default recipients", method: http.MethodPost, path: "/api/reports/class/email",
			wantCode: http.StatusAccepted, wantData: marchallObj(t, ReportResponse{Report: "Reporte grupal"}),
		},
	})

	sent := mailSvc.SentMessages()[sentBefore:]
	require.Len(t, sent, 2)
	assert.Equal(t, "docente@ascend.test", sent[0].To[0].Address)
	assert.Equal(t, "director@ascend.test", sent[1].To[0].Address)
	require.Len(t, sent[1].Attachments, 1)
	assert.Equal(t, "text/csv", sent[1].Attachments[0].ContentType)
}
