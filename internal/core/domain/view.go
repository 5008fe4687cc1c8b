package domain

// ResultView is the wire form of a Result shared by the HTTP API,
// the MCP tool and "askdoc ask --json".
type ResultView struct {
	OK      bool         `json:"ok"`
	Answer  string       `json:"answer,omitempty"`
	Score   *float64     `json:"score,omitempty"`
	Pages   []PageView   `json:"pages,omitempty"`
	Failure *FailureView `json:"failure,omitempty"`
	Display string       `json:"display"`
}

// PageView is one page of a multi-page answer.
type PageView struct {
	Page   int     `json:"page"`
	Answer string  `json:"answer,omitempty"`
	Score  float64 `json:"score"`
	Error  string  `json:"error,omitempty"`
}

// FailureView carries the failure kind and user-facing message.
type FailureView struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// View converts the result to its wire form.
func (r Result) View() ResultView {
	v := ResultView{OK: r.OK(), Display: r.String()}
	if r.Failure != nil {
		v.Failure = &FailureView{Kind: r.Failure.Kind, Message: r.Failure.Message}
		return v
	}
	if r.Answer == nil {
		return v
	}

	v.Answer = r.Answer.Text
	v.Score = r.Answer.Score
	for _, p := range r.Answer.Pages {
		pv := PageView{Page: p.Page, Answer: p.Text, Score: p.Score}
		if p.Err != nil {
			pv.Error = p.Err.Error()
		}
		v.Pages = append(v.Pages, pv)
	}
	return v
}
