package ellones

import (
	"context"
	"errors"
	"time"

	"github.com/dekarrin/ellone"
	"github.com/dekarrin/ellone/internal/llerrors"
	"github.com/dekarrin/ellone/server/dao"
	"github.com/dekarrin/ellone/server/metrics"
	"github.com/dekarrin/ellone/server/serr"
	"github.com/google/uuid"
)

// Parse analyzes the grammar given in text and parses input with it. start
// overrides the grammar's start symbol if not empty. The run is recorded in
// persistence with no grammar ID.
//
// The returned error, if non-nil, will match serr.ErrGrammar if the grammar
// cannot be used; it then also matches the llerrors sentinel for the reason,
// and the Analysis of the returned Result is filled in as far as it got. It
// will match serr.ErrBadArgument if input is not a valid token sequence, and
// serr.ErrDB if the run could not be recorded.
func (svc Service) Parse(ctx context.Context, text, start, input string) (ellone.Result, dao.Run, error) {
	return svc.parseAndRecord(ctx, uuid.Nil, text, start, input)
}

// CheckLL1 reports whether the grammar given in text is LL(1) once its direct
// left recursion is removed.
//
// The returned error, if non-nil, will match serr.ErrGrammar and
// llerrors.ErrMalformedGrammar. A grammar that is merely not LL(1) is not an
// error.
func (svc Service) CheckLL1(ctx context.Context, text, start string) (ellone.LL1Report, error) {
	g, _, err := ellone.ReadGrammar(text, start)
	if err != nil {
		return ellone.LL1Report{}, serr.WrapGrammar("", err)
	}

	rep, err := ellone.CheckLL1(g)
	if err != nil {
		return ellone.LL1Report{}, serr.WrapGrammar("", err)
	}
	return rep, nil
}

func (svc Service) parseAndRecord(ctx context.Context, grammarID uuid.UUID, text, start, input string) (ellone.Result, dao.Run, error) {
	analyzeStart := time.Now()
	a, err := ellone.AnalyzeText(text, start)
	metrics.AnalyzeDuration.WithLabelValues(metrics.RetLabel(err)).Observe(time.Since(analyzeStart).Seconds())
	if err != nil {
		metrics.ParseCounter.WithLabelValues(metrics.GrammarErrorToLabel(err)).Inc()
		var res ellone.Result
		if a != nil {
			res.Analysis = *a
		}
		return res, dao.Run{}, serr.WrapGrammar("", err)
	}

	res := ellone.Result{Analysis: *a}
	tokens := ellone.Tokens(input)
	res.ParseResult, err = a.Parse(tokens)
	if err != nil {
		metrics.ParseCounter.WithLabelValues(metrics.GrammarErrorToLabel(err)).Inc()
		if errors.Is(err, llerrors.ErrBadInput) {
			return res, dao.Run{}, serr.New("", err, serr.ErrBadArgument)
		}
		return res, dao.Run{}, err
	}

	if res.Accepted {
		metrics.ParseCounter.WithLabelValues(metrics.LabelAccepted).Inc()
	} else {
		metrics.ParseCounter.WithLabelValues(metrics.LabelRejected).Inc()
	}
	metrics.ParseSteps.Observe(float64(len(res.Steps)))

	run, err := svc.DB.Runs().Create(ctx, dao.Run{
		GrammarID: grammarID,
		Input:     tokens,
		Accepted:  res.Accepted,
		Steps:     res.Steps,
		Tree:      res.Tree,
	})
	if err != nil {
		metrics.StoreErrorCounter.WithLabelValues("create_run").Inc()
		return res, dao.Run{}, serr.WrapDB("could not record run", err)
	}

	return res, run, nil
}
