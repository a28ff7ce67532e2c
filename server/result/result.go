// Package result holds the outcome of an API endpoint and writes it out as an
// HTTP response.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
//
// internalMsg arguments accepted by the constructors in this package are a
// format string followed by its arguments. The message is logged but never
// sent to the client.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// OK returns a Result containing an HTTP-200 with respObj as the body.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("OK", internalMsg)

	return Response(http.StatusOK, respObj, internalMsgFmt, msgArgs...)
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("no content", internalMsg)

	return Response(http.StatusNoContent, nil, internalMsgFmt, msgArgs...)
}

// Created returns a Result containing an HTTP-201 with respObj as the body.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("created", internalMsg)

	return Response(http.StatusCreated, respObj, internalMsgFmt, msgArgs...)
}

// Conflict returns a Result containing an HTTP-409 that shows userMsg to the
// client.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("conflict", internalMsg)

	return Err(http.StatusConflict, userMsg, internalMsgFmt, msgArgs...)
}

// BadRequest returns a Result containing an HTTP-400 that shows userMsg to
// the client.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("bad request", internalMsg)

	return Err(http.StatusBadRequest, userMsg, internalMsgFmt, msgArgs...)
}

// MethodNotAllowed returns a Result containing an HTTP-405 naming the method
// and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("method not allowed", internalMsg)

	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)

	return Err(http.StatusMethodNotAllowed, userMsg, internalMsgFmt, msgArgs...)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("not found", internalMsg)

	return Err(http.StatusNotFound, "The requested resource was not found", internalMsgFmt, msgArgs...)
}

// Forbidden returns a Result containing an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("forbidden", internalMsg)

	return Err(http.StatusForbidden, "You don't have permission to do that", internalMsgFmt, msgArgs...)
}

// Unauthorized returns a Result containing an HTTP-401 with a WWW-Authenticate
// header. A generic message is shown if userMsg is empty.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("unauthorized", internalMsg)

	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, internalMsgFmt, msgArgs...).
		WithHeader("WWW-Authenticate", `Bearer realm="ellone server", charset="utf-8"`)
}

// InternalServerError returns a Result containing an HTTP-500. The client
// only ever sees a generic message.
func InternalServerError(internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("internal server error", internalMsg)

	return Err(http.StatusInternalServerError, "An internal server error occurred", internalMsgFmt, msgArgs...)
}

// UnprocessableEntity returns a Result containing an HTTP-422 response with
// respObj as its body. It is used for requests that were well-formed but
// named a grammar that cannot be parsed with, where the body says why.
func UnprocessableEntity(respObj interface{}, internalMsg ...interface{}) Result {
	internalMsgFmt, msgArgs := splitInternalMsg("unprocessable entity", internalMsg)

	r := Response(http.StatusUnprocessableEntity, respObj, internalMsgFmt, msgArgs...)
	r.IsErr = true
	return r
}

func splitInternalMsg(def string, internalMsg []interface{}) (string, []interface{}) {
	if len(internalMsg) < 1 {
		return def, nil
	}
	return internalMsg[0].(string), internalMsg[1:]
}

// Response returns a non-error JSON Result. respObj may be nil only when
// status is http.StatusNoContent.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		IsJSON:      true,
		IsErr:       false,
		Status:      status,
		InternalMsg: msg,
		resp:        respObj,
	}
}

// Err returns a JSON Result with an ErrorResponse body showing userMsg.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: msg,
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// Redirection returns a Result that permanently redirects to uri.
func Redirection(uri string) Result {
	msg := fmt.Sprintf("redirect -> %s", uri)
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: msg,
		redir:       uri,
	}
}

// TextErr is like Err but writes userMsg as plain text. It is used where JSON
// encoding itself may be what failed.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		IsJSON:      false,
		IsErr:       true,
		Status:      status,
		InternalMsg: msg,
		resp:        userMsg,
	}
}

// Result is the outcome of an endpoint. InternalMsg is for the server log
// only.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string // only used for redirects
	hdrs  [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

func (r Result) WithHeader(name, val string) Result {
	erCopy := r
	erCopy.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(erCopy.hdrs, r.hdrs)

	erCopy.hdrs = append(erCopy.hdrs, [2]string{name, val})
	return erCopy
}

// PrepareMarshaledResponse encodes the response body ahead of writing it so
// that encoding problems can be handled before anything is sent. Calling it
// again after a success does nothing.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent && r.redir == "" {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its
// body cannot be encoded.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	err := r.PrepareMarshaledResponse()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if r.redir == "" {
			respBytes = r.respJSONBytes
		}
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if r.Status != http.StatusNoContent && r.redir == "" {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}

	// if there is a redir, handle that now
	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
