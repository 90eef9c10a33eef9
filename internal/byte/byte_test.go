package byte

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *CreateByteRequest {
	filler := strings.Repeat("x", 120)
	return &CreateByteRequest{
		Title:    "Cognitive Dissonance",
		Summary:  filler,
		Example:  filler,
		Category: "Social Psychology",
		Tags:     []string{"cognition", "bias"},
		Quiz: Quiz{
			Question:      "Who coined the term?",
			Options:       []string{"Festinger", "Skinner", "Bandura"},
			CorrectAnswer: "Festinger",
		},
	}
}

func TestValidate_AcceptsWellFormedByte(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	req := validRequest()
	req.Title = ""
	assert.Error(t, req.Validate())

	req = validRequest()
	req.Category = ""
	assert.Error(t, req.Validate())
}

func TestValidate_SummaryLengthBounds(t *testing.T) {
	req := validRequest()
	req.Summary = strings.Repeat("x", 99)
	assert.Error(t, req.Validate())

	req.Summary = strings.Repeat("x", 100)
	assert.NoError(t, req.Validate())

	req.Summary = strings.Repeat("x", 200)
	assert.NoError(t, req.Validate())

	req.Summary = strings.Repeat("x", 201)
	assert.Error(t, req.Validate())
}

func TestValidate_ExampleLengthBounds(t *testing.T) {
	req := validRequest()
	req.Example = strings.Repeat("x", 50)
	assert.Error(t, req.Validate())
}

func TestValidate_QuizOptionCount(t *testing.T) {
	req := validRequest()
	req.Quiz.Options = []string{"Festinger"}
	req.Quiz.CorrectAnswer = "Festinger"
	assert.Error(t, req.Validate())

	req.Quiz.Options = []string{"Festinger", "Skinner", "Bandura", "Pavlov", "Freud"}
	assert.Error(t, req.Validate())

	req.Quiz.Options = []string{"Festinger", "Skinner"}
	assert.NoError(t, req.Validate())
}

func TestValidate_CorrectAnswerMustBeAnOption(t *testing.T) {
	req := validRequest()
	req.Quiz.CorrectAnswer = "Freud"

	err := req.Validate()
	require.Error(t, err)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestPaginate_CeilDivision(t *testing.T) {
	p := Paginate(13, 1)

	assert.Equal(t, 13, p.TotalCount)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, PageSize, p.PageSize)
}

func TestPaginate_ExactMultiple(t *testing.T) {
	assert.Equal(t, 2, Paginate(12, 1).TotalPages)
}

func TestPaginate_EmptyStore(t *testing.T) {
	p := Paginate(0, 1)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestPaginate_PageBeyondEndIsLegal(t *testing.T) {
	// page 4 of 3 is answered with empty items, not an error; the
	// metadata still reports where the caller is
	p := Paginate(13, 4)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 4, p.CurrentPage)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 6, Offset(2))
	assert.Equal(t, 18, Offset(4))
	assert.Equal(t, 0, Offset(0), "page floor is 1")
}
