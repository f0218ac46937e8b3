package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

func TestDecode(t *testing.T) {
	job, err := Decode([]byte(`{"to":"jane@x.com","template":"welcome","data":{"Name":"Jane"}}`))
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", job.To)
	assert.Equal(t, tpl.Welcome, job.Template)

	_, err = Decode([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrBadJob)
}

func TestPrepare_Template(t *testing.T) {
	job := EmailJob{To: "jane@x.com", Template: tpl.Welcome, Data: tpl.NewWelcomeData("App", "Jane", "jane@x.com")}
	subject, text, html, err := Prepare(job)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to App", subject)
	assert.NotEmpty(t, text)
	assert.NotEmpty(t, html)
}

func TestPrepare_Raw(t *testing.T) {
	subject, text, html, err := Prepare(EmailJob{To: "jane@x.com", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)
}

func TestPrepare_BadJobs(t *testing.T) {
	cases := []EmailJob{
		{Template: tpl.Welcome},
		{To: "jane@x.com"},
		{To: "jane@x.com", Subject: "Hi"},
		{To: "jane@x.com", Template: "forgot_password"},
	}
	for _, job := range cases {
		_, _, _, err := Prepare(job)
		assert.ErrorIs(t, err, ErrBadJob, "job %+v", job)
	}
}
