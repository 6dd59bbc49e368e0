package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"

	"github.com/jrherrmann/glitzer/internal/diff"
	"github.com/jrherrmann/glitzer/internal/gitobj"
)

const defaultHistoryLimit = 50

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	r := s.repository()
	if r == nil {
		writeError(w, http.StatusServiceUnavailable, "repository not open")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"head":   string(r.Head()),
		"branch": r.CurrentBranch(),
	})
}

type commitSummary struct {
	Hash        string `json:"hash"`
	Parent      string `json:"parent,omitempty"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	AuthoredAt  string `json:"authoredAt"`
	Subject     string `json:"subject"`
}

func summarize(c *gitobj.Commit) commitSummary {
	s := commitSummary{
		Hash:        string(c.Hash),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthoredAt:  c.AuthoredAt.Format(time.RFC3339),
		Subject:     subjectLine(c.Message),
	}
	if c.Parent != nil {
		s.Parent = string(*c.Parent)
	}
	return s
}

func subjectLine(message string) string {
	for i, r := range message {
		if r == '\n' {
			return message[:i]
		}
	}
	return message
}

// handleHistory returns the first-parent commit chain reachable from
// HEAD, newest first, optionally truncated by the "limit" query param.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	repository := s.repository()
	if repository == nil {
		writeError(w, http.StatusServiceUnavailable, "repository not open")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	commits, err := repository.GetCommits()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(commits) > limit {
		commits = commits[:limit]
	}

	out := make([]commitSummary, len(commits))
	for i, c := range commits {
		out[i] = summarize(c)
	}
	writeJSON(w, http.StatusOK, out)
}

type commitDetail struct {
	commitSummary
	CommittedAt    string `json:"committedAt"`
	CommitterName  string `json:"committerName"`
	CommitterEmail string `json:"committerEmail"`
	Message        string `json:"message"`
	MessageHTML    string `json:"messageHtml"`
	Added          uint64 `json:"added"`
	Removed        uint64 `json:"removed"`
}

// handleCommit returns a single commit's metadata, rendered message, and
// its line-diff against its first parent (an empty diff for root
// commits, since there is nothing to compare against).
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	repository := s.repository()
	if repository == nil {
		writeError(w, http.StatusServiceUnavailable, "repository not open")
		return
	}

	hash, err := gitobj.NewHash(r.PathValue("hash"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hash")
		return
	}

	commit, err := repository.GetCommit(hash)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert([]byte(commit.Message), &rendered); err != nil {
		writeError(w, http.StatusInternalServerError, "rendering commit message: "+err.Error())
		return
	}

	detail := commitDetail{
		commitSummary:  summarize(commit),
		CommittedAt:    commit.CommittedAt.Format(time.RFC3339),
		CommitterName:  commit.Committer.Name,
		CommitterEmail: commit.Committer.Email,
		Message:        commit.Message,
		MessageHTML:    rendered.String(),
	}

	if commit.Parent != nil {
		parent, err := repository.GetCommit(*commit.Parent)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		cd, err := diff.DiffCommits(parent, commit, s.getObject)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		detail.Added = cd.Added
		detail.Removed = cd.Removed
	}

	writeJSON(w, http.StatusOK, detail)
}

type objectResponse struct {
	Hash string `json:"hash"`
	Type string `json:"type"`
	Blob *struct {
		Content string `json:"content"`
	} `json:"blob,omitempty"`
	Tree *[]struct {
		Mode string `json:"mode"`
		Name string `json:"name"`
		Hash string `json:"hash"`
	} `json:"tree,omitempty"`
}

// handleObject returns a raw object's decoded form: a blob's UTF-8
// content, or a tree's sorted entry list. Non-UTF-8 blobs are reported
// as an error rather than silently mangled. A commit is returned with its
// hash and type only; its fields are served by /api/commit/{hash}.
func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	hash, err := gitobj.NewHash(r.PathValue("hash"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hash")
		return
	}

	obj, err := s.getObject(hash)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := objectResponse{Hash: string(hash), Type: obj.Type().String()}

	switch v := obj.(type) {
	case *gitobj.Blob:
		if !utf8.Valid(v.Content) {
			writeError(w, http.StatusUnprocessableEntity, "blob is not valid UTF-8 text")
			return
		}
		resp.Blob = &struct {
			Content string `json:"content"`
		}{Content: string(v.Content)}
	case *gitobj.Tree:
		entries := make([]struct {
			Mode string `json:"mode"`
			Name string `json:"name"`
			Hash string `json:"hash"`
		}, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = struct {
				Mode string `json:"mode"`
				Name string `json:"name"`
				Hash string `json:"hash"`
			}{Mode: e.Mode.String(), Name: e.Name, Hash: string(e.Hash)}
		}
		resp.Tree = &entries
	}

	writeJSON(w, http.StatusOK, resp)
}
