package api

import (
	"errors"
	"time"

	"github.com/dekarrin/ellone"
	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/dekarrin/ellone/internal/types"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/google/uuid"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Ellone string `json:"ellone"`
	} `json:"version"`
	Admin bool `json:"admin"`
}

type ParseRequest struct {
	Grammar string `json:"grammar"`
	Start   string `json:"start,omitempty"`
	Input   string `json:"input"`
}

type CheckLL1Request struct {
	Grammar string `json:"grammar"`
	Start   string `json:"start,omitempty"`
}

type GrammarRequest struct {
	Name    string `json:"name"`
	Grammar string `json:"grammar"`
	Start   string `json:"start,omitempty"`
}

type RunRequest struct {
	Input string `json:"input"`
}

// RuleModel is one non-terminal with all of its productions.
type RuleModel struct {
	NonTerminal string     `json:"nonterminal"`
	Productions [][]string `json:"productions"`
}

type GrammarModel struct {
	Start string      `json:"start"`
	Rules []RuleModel `json:"rules"`
}

// ConflictModel describes why a table could not be built. For a left
// recursion problem only NonTerminal and Production are set.
type ConflictModel struct {
	Kind        string   `json:"kind"`
	NonTerminal string   `json:"nonterminal"`
	Terminal    string   `json:"terminal,omitempty"`
	Existing    []string `json:"existing,omitempty"`
	Incoming    []string `json:"incoming,omitempty"`
	Production  []string `json:"production,omitempty"`
	Message     string   `json:"message"`
}

type AnalysisModel struct {
	Grammar  GrammarModel                   `json:"grammar"`
	First    map[string][]string            `json:"first"`
	Follow   map[string][]string            `json:"follow"`
	Table    map[string]map[string][]string `json:"table,omitempty"`
	Warnings []string                       `json:"warnings,omitempty"`
}

type ParseResponse struct {
	AnalysisModel
	RunID    string           `json:"run_id,omitempty"`
	Accepted bool             `json:"accepted"`
	Steps    []string         `json:"steps"`
	Tree     *types.ParseTree `json:"tree"`
}

// GrammarErrorResponse is sent with an HTTP-422 when a grammar is well-formed
// but no table can be built for it.
type GrammarErrorResponse struct {
	Error    string        `json:"error"`
	Status   int           `json:"status"`
	Conflict ConflictModel `json:"conflict"`
	AnalysisModel
}

type CheckLL1Response struct {
	IsLL1    bool                `json:"isLL1"`
	Conflict *ConflictModel      `json:"conflict,omitempty"`
	Grammar  GrammarModel        `json:"grammar"`
	First    map[string][]string `json:"first"`
	Follow   map[string][]string `json:"follow"`
}

type StoredGrammarModel struct {
	URI      string    `json:"uri"`
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Grammar  string    `json:"grammar"`
	Start    string    `json:"start,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

type RunModel struct {
	URI       string                 `json:"uri"`
	ID        string                 `json:"id"`
	GrammarID string                 `json:"grammar_id,omitempty"`
	Input     []string               `json:"input"`
	Accepted  bool                   `json:"accepted"`
	Steps     []types.DerivationStep `json:"steps"`
	Tree      *types.ParseTree       `json:"tree"`
	Created   time.Time              `json:"created"`
}

func grammarToModel(g ellone.Grammar) GrammarModel {
	m := GrammarModel{Start: g.Start, Rules: []RuleModel{}}
	for _, r := range g.Rules() {
		rm := RuleModel{NonTerminal: r.NonTerminal, Productions: make([][]string, len(r.Productions))}
		for i := range r.Productions {
			rm.Productions[i] = []string(r.Productions[i].Copy())
		}
		m.Rules = append(m.Rules, rm)
	}
	return m
}

func analysisToModel(a ellone.Analysis) AnalysisModel {
	m := AnalysisModel{
		Grammar:  grammarToModel(a.Normalized),
		Warnings: a.Warnings,
	}
	if a.First != nil {
		m.First = a.First.Map()
	}
	if a.Follow != nil {
		m.Follow = a.Follow.Map()
	}
	if a.Table != nil {
		m.Table = a.Table.Map()
	}
	return m
}

// conflictToModel converts a table error from llerrors. ok is false if err is
// neither a conflict nor a left recursion error.
func conflictToModel(err error) (m ConflictModel, ok bool) {
	var conflict *llerrors.ConflictError
	var lr *llerrors.LeftRecursionError

	if errors.As(err, &conflict) {
		return ConflictModel{
			Kind:        "conflict",
			NonTerminal: conflict.NonTerminal,
			Terminal:    conflict.Terminal,
			Existing:    conflict.Existing,
			Incoming:    conflict.Incoming,
			Message:     conflict.Error(),
		}, true
	}
	if errors.As(err, &lr) {
		return ConflictModel{
			Kind:        "left_recursion",
			NonTerminal: lr.NonTerminal,
			Production:  lr.Production,
			Message:     lr.Error(),
		}, true
	}
	return ConflictModel{}, false
}

func storedGrammarToModel(g dao.Grammar) StoredGrammarModel {
	return StoredGrammarModel{
		URI:      PathPrefix + "/grammars/" + g.ID.String(),
		ID:       g.ID.String(),
		Name:     g.Name,
		Grammar:  g.Source,
		Start:    g.Start,
		Created:  g.Created,
		Modified: g.Modified,
	}
}

func runToModel(r dao.Run) RunModel {
	m := RunModel{
		URI:      PathPrefix + "/runs/" + r.ID.String(),
		ID:       r.ID.String(),
		Input:    r.Input,
		Accepted: r.Accepted,
		Steps:    r.Steps,
		Tree:     r.Tree,
		Created:  r.Created,
	}
	if m.Input == nil {
		m.Input = []string{}
	}
	if m.Steps == nil {
		m.Steps = []types.DerivationStep{}
	}
	if r.GrammarID != uuid.Nil {
		m.GrammarID = r.GrammarID.String()
	}
	return m
}
