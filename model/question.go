package model

import "github.com/google/uuid"

// Question represents a single multiple-choice exam question.
//
// A question is assembled in two phases. During parsing the Set* methods
// fill fields incrementally: each setter only takes effect while the field
// is still empty, so repeated passes over the same block never overwrite a
// value found earlier. Calling Seal ends the parsing phase and makes the
// parsed fields immutable.
//
// Image keys are assigned after parsing, when images are mapped to
// questions, and are exempt from sealing: each assignment replaces the
// previous key, so the last image mapped to a question wins.
type Question struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Text          string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	OptionE       string `json:"option_e"`
	Subject       string `json:"subject"`
	CorrectAnswer string `json:"correct_answer"`
	Comment       string `json:"comment"`
	ImageKey      string `json:"image_key,omitempty"`

	// Page is the zero-based page index the question header was found on,
	// or -1 when the document has no page geometry (flow-based formats)
	// or the header could not be located.
	Page int `json:"-"`

	// Y0 is the top of the question header, Y1 the bottom of the region
	// the question occupies on the page. HeaderBottom is the lower edge
	// of the header line itself. All in top-down page coordinates.
	Y0           float64 `json:"-"`
	Y1           float64 `json:"-"`
	HeaderBottom float64 `json:"-"`

	// DocumentPosition orders questions and images in flow-based
	// documents where no page geometry exists.
	DocumentPosition int `json:"-"`

	// FullText is the raw block the question was parsed from.
	FullText string `json:"-"`

	sealed bool
}

// NewQuestion creates a question with a fresh unique ID and no page
// placement.
func NewQuestion(number string) *Question {
	return &Question{
		ID:     uuid.NewString(),
		Number: number,
		Page:   -1,
		Y0:     -1,
		Y1:     -1,
	}
}

// Seal ends the parsing phase. After sealing, all Set* methods other than
// SetImageKey become no-ops.
func (q *Question) Seal() {
	q.sealed = true
}

// Sealed reports whether the question has been sealed.
func (q *Question) Sealed() bool {
	return q.sealed
}

// SetText fills the question text if it is still empty.
func (q *Question) SetText(text string) {
	if q.sealed || q.Text != "" {
		return
	}
	q.Text = text
}

// SetOption fills the option for letter 'A' through 'E' if it is still
// empty. Other letters are ignored.
func (q *Question) SetOption(letter byte, value string) {
	if q.sealed {
		return
	}
	switch letter {
	case 'A':
		if q.OptionA == "" {
			q.OptionA = value
		}
	case 'B':
		if q.OptionB == "" {
			q.OptionB = value
		}
	case 'C':
		if q.OptionC == "" {
			q.OptionC = value
		}
	case 'D':
		if q.OptionD == "" {
			q.OptionD = value
		}
	case 'E':
		if q.OptionE == "" {
			q.OptionE = value
		}
	}
}

// Option returns the option text for letter 'A' through 'E'.
func (q *Question) Option(letter byte) string {
	switch letter {
	case 'A':
		return q.OptionA
	case 'B':
		return q.OptionB
	case 'C':
		return q.OptionC
	case 'D':
		return q.OptionD
	case 'E':
		return q.OptionE
	}
	return ""
}

// SetSubject fills the subject if it is still empty.
func (q *Question) SetSubject(subject string) {
	if q.sealed || q.Subject != "" {
		return
	}
	q.Subject = subject
}

// SetCorrectAnswer fills the correct answer if it is still empty.
func (q *Question) SetCorrectAnswer(answer string) {
	if q.sealed || q.CorrectAnswer != "" {
		return
	}
	q.CorrectAnswer = answer
}

// SetComment fills the comment if it is still empty.
func (q *Question) SetComment(comment string) {
	if q.sealed || q.Comment != "" {
		return
	}
	q.Comment = comment
}

// SetImageKey records the key of an image assigned to this question.
// Unlike the parsing setters it always overwrites and works on sealed
// questions.
func (q *Question) SetImageKey(key string) {
	q.ImageKey = key
}

// HasAnyOption reports whether at least one option is non-empty.
func (q *Question) HasAnyOption() bool {
	return q.OptionA != "" || q.OptionB != "" || q.OptionC != "" ||
		q.OptionD != "" || q.OptionE != ""
}
