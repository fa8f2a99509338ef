package decision

import (
	"errors"
	"time"

	"github.com/evan-idocoding/restmachine/rctx"
)

// Halt is returned by a controller callback to short-circuit the decision
// graph with the given status code (§7 "Controller halt"). finish_request
// still runs and the emitter still produces a response.
type Halt struct {
	Code int
}

func (h Halt) Error() string { return "decision: halt" }

// AsHalt reports whether err is (or wraps) a Halt, returning its code.
func AsHalt(err error) (Halt, bool) {
	var h Halt
	ok := errors.As(err, &h)
	return h, ok
}

// ErrController wraps an error returned by a controller callback that is
// not a Halt; the engine maps it to the 500 path (§7 "Controller raises").
type ErrController struct {
	Err error
}

func (e ErrController) Error() string { return "decision: controller error: " + e.Err.Error() }
func (e ErrController) Unwrap() error { return e.Err }

// ContentTypeHandler pairs a media type the controller can produce with the
// render function invoked once negotiation selects it.
type ContentTypeHandler struct {
	ContentType string
	Render      func(ctx *rctx.Context) (*rctx.Body, error)
}

// AcceptHandler pairs a media type the controller can consume (for PUT/POST
// bodies) with the handler invoked once the request's Content-Type is
// matched to it.
type AcceptHandler struct {
	ContentType string
	Accept      func(ctx *rctx.Context) (bool, error)
}

// PostResult is returned by ProcessPost (§4.2 "POST semantics"): the
// controller has full control over how a non-create POST is handled.
type PostResult struct {
	// Handled is true when the POST succeeded and ordinary 200/204
	// status selection should continue.
	Handled bool
	// Halt, if non-zero, short-circuits with this status instead.
	Halt int
	// RedirectTo, if non-empty, produces a 303 See Other to this URI.
	RedirectTo string
}

// --- optional single-method interfaces, one per callback ---
//
// A Controller implements any subset of these; Adapt resolves each via a
// static type assertion and falls back to the §6 default otherwise. No
// reflection is used anywhere in this package.

type serviceAvailabler interface {
	ServiceAvailable(ctx *rctx.Context) (bool, error)
}
type resourceExister interface {
	ResourceExists(ctx *rctx.Context) (bool, error)
}
type authRequirer interface {
	AuthRequired(ctx *rctx.Context) (bool, error)
}
type authorizer interface {
	IsAuthorized(ctx *rctx.Context) (ok bool, challenge string, err error)
}
type forbidder interface {
	Forbidden(ctx *rctx.Context) (bool, error)
}
type validContentHeaderer interface {
	ValidContentHeaders(ctx *rctx.Context) (bool, error)
}
type knownContentTyper interface {
	KnownContentType(ctx *rctx.Context) (bool, error)
}
type validEntityLengther interface {
	ValidEntityLength(ctx *rctx.Context) (bool, error)
}
type malformedRequester interface {
	MalformedRequest(ctx *rctx.Context) (bool, error)
}
type uriTooLonger interface {
	URITooLong(ctx *rctx.Context) (bool, error)
}
type allowedMethodser interface {
	AllowedMethods(ctx *rctx.Context) ([]string, error)
}
type knownMethodser interface {
	KnownMethods(ctx *rctx.Context) ([]string, error)
}
type optionser interface {
	Options(ctx *rctx.Context) (map[string]string, error)
}
type contentTypesProvideder interface {
	ContentTypesProvided(ctx *rctx.Context) ([]ContentTypeHandler, error)
}
type contentTypesAccepteder interface {
	ContentTypesAccepted(ctx *rctx.Context) ([]AcceptHandler, error)
}
type languageAvailabler interface {
	LanguageAvailable(ctx *rctx.Context, tag string) (bool, error)
}
type charsetsProvideder interface {
	CharsetsProvided(ctx *rctx.Context) ([]string, error)
}
type contentEncodingsProvideder interface {
	ContentEncodingsProvided(ctx *rctx.Context) ([]string, error)
}
type transferEncodingsProvideder interface {
	TransferEncodingsProvided(ctx *rctx.Context) ([]string, error)
}
type variancer interface {
	Variances(ctx *rctx.Context) ([]string, error)
}
type generateETager interface {
	GenerateETag(ctx *rctx.Context) (string, bool, error)
}
type lastModifieder interface {
	LastModified(ctx *rctx.Context) (time.Time, bool, error)
}
type expireser interface {
	Expires(ctx *rctx.Context) (time.Time, bool, error)
}
type movedPermanentlyer interface {
	MovedPermanently(ctx *rctx.Context) (bool, string, error)
}
type movedTemporarilyer interface {
	MovedTemporarily(ctx *rctx.Context) (bool, string, error)
}
type previouslyExister interface {
	PreviouslyExisted(ctx *rctx.Context) (bool, error)
}
type allowMissingPoster interface {
	AllowMissingPost(ctx *rctx.Context) (bool, error)
}
type isConflicter interface {
	IsConflict(ctx *rctx.Context) (bool, error)
}
type multipleChoiceser interface {
	MultipleChoices(ctx *rctx.Context) (bool, error)
}
type postIsCreater interface {
	PostIsCreate(ctx *rctx.Context) (bool, error)
}
type createPatcher interface {
	CreatePath(ctx *rctx.Context) (string, error)
}
type baseURIer interface {
	BaseURI(ctx *rctx.Context) (string, error)
}
type processPoster interface {
	ProcessPost(ctx *rctx.Context) (PostResult, error)
}
type deleteResourcer interface {
	DeleteResource(ctx *rctx.Context) (bool, error)
}
type deleteCompleteder interface {
	DeleteCompleted(ctx *rctx.Context) (bool, error)
}
type finishRequester interface {
	FinishRequest(ctx *rctx.Context) (bool, error)
}

// Controller is user code implementing any subset of the optional
// interfaces above. There is nothing to implement to satisfy Controller
// itself; it exists only to name the concept at call sites.
type Controller interface{}

// Adapter resolves every callback of a Controller to a concrete function,
// substituting the §6 default table for anything the controller does not
// implement.
type Adapter struct {
	serviceAvailable           func(*rctx.Context) (bool, error)
	resourceExists             func(*rctx.Context) (bool, error)
	authRequired               func(*rctx.Context) (bool, error)
	isAuthorized               func(*rctx.Context) (bool, string, error)
	forbidden                  func(*rctx.Context) (bool, error)
	validContentHeaders        func(*rctx.Context) (bool, error)
	knownContentType           func(*rctx.Context) (bool, error)
	validEntityLength          func(*rctx.Context) (bool, error)
	malformedRequest           func(*rctx.Context) (bool, error)
	uriTooLong                 func(*rctx.Context) (bool, error)
	allowedMethods             func(*rctx.Context) ([]string, error)
	knownMethods               func(*rctx.Context) ([]string, error)
	options                    func(*rctx.Context) (map[string]string, error)
	contentTypesProvided       func(*rctx.Context) ([]ContentTypeHandler, error)
	contentTypesAccepted       func(*rctx.Context) ([]AcceptHandler, error)
	languageAvailable          func(*rctx.Context, string) (bool, error)
	charsetsProvided           func(*rctx.Context) ([]string, error)
	contentEncodingsProvided   func(*rctx.Context) ([]string, error)
	transferEncodingsProvided  func(*rctx.Context) ([]string, error)
	variances                  func(*rctx.Context) ([]string, error)
	generateETag               func(*rctx.Context) (string, bool, error)
	lastModified               func(*rctx.Context) (time.Time, bool, error)
	expires                     func(*rctx.Context) (time.Time, bool, error)
	movedPermanently           func(*rctx.Context) (bool, string, error)
	movedTemporarily           func(*rctx.Context) (bool, string, error)
	previouslyExisted          func(*rctx.Context) (bool, error)
	allowMissingPost           func(*rctx.Context) (bool, error)
	isConflict                 func(*rctx.Context) (bool, error)
	multipleChoices            func(*rctx.Context) (bool, error)
	postIsCreate               func(*rctx.Context) (bool, error)
	createPath                 func(*rctx.Context) (string, error)
	baseURI                    func(*rctx.Context) (string, error)
	processPost                func(*rctx.Context) (PostResult, error)
	deleteResource             func(*rctx.Context) (bool, error)
	deleteCompleted            func(*rctx.Context) (bool, error)
	finishRequest              func(*rctx.Context) (bool, error)
}

func alwaysTrue(*rctx.Context) (bool, error)   { return true, nil }
func alwaysFalse(*rctx.Context) (bool, error)  { return false, nil }
func noStrings(*rctx.Context) ([]string, error) { return nil, nil }

// Adapt builds an Adapter for c, resolving every callback via a static
// interface assertion and falling back to the default table from §6 for
// anything c does not implement.
func Adapt(c Controller) *Adapter {
	a := &Adapter{
		serviceAvailable:          alwaysTrue,
		resourceExists:            alwaysTrue,
		authRequired:              alwaysTrue,
		isAuthorized:              func(*rctx.Context) (bool, string, error) { return true, "", nil },
		forbidden:                 alwaysFalse,
		validContentHeaders:       alwaysTrue,
		knownContentType:          alwaysTrue,
		validEntityLength:         alwaysTrue,
		malformedRequest:          alwaysFalse,
		uriTooLong:                alwaysFalse,
		allowedMethods:            func(*rctx.Context) ([]string, error) { return []string{"GET", "HEAD"}, nil },
		knownMethods: func(*rctx.Context) ([]string, error) {
			return []string{"GET", "HEAD", "POST", "PUT", "DELETE", "TRACE", "CONNECT", "OPTIONS"}, nil
		},
		options: func(*rctx.Context) (map[string]string, error) { return nil, nil },
		contentTypesProvided: func(ctx *rctx.Context) ([]ContentTypeHandler, error) {
			return []ContentTypeHandler{{
				ContentType: "text/html",
				Render: func(ctx *rctx.Context) (*rctx.Body, error) {
					return rctx.NewBytesBody(nil), nil
				},
			}}, nil
		},
		contentTypesAccepted: func(*rctx.Context) ([]AcceptHandler, error) { return nil, nil },
		languageAvailable:    func(*rctx.Context, string) (bool, error) { return true, nil },
		charsetsProvided:     func(*rctx.Context) ([]string, error) { return []string{rctx.NoCharset}, nil },
		contentEncodingsProvided:  func(*rctx.Context) ([]string, error) { return []string{"identity"}, nil },
		transferEncodingsProvided: noStrings,
		variances:                 noStrings,
		generateETag:              func(*rctx.Context) (string, bool, error) { return "", false, nil },
		lastModified:              func(*rctx.Context) (time.Time, bool, error) { return time.Time{}, false, nil },
		expires:                   func(*rctx.Context) (time.Time, bool, error) { return time.Time{}, false, nil },
		movedPermanently:          func(*rctx.Context) (bool, string, error) { return false, "", nil },
		movedTemporarily:          func(*rctx.Context) (bool, string, error) { return false, "", nil },
		previouslyExisted:         alwaysFalse,
		allowMissingPost:          alwaysFalse,
		isConflict:                alwaysFalse,
		multipleChoices:           alwaysFalse,
		postIsCreate:              alwaysFalse,
		createPath:                func(*rctx.Context) (string, error) { return "", nil },
		baseURI:                   func(*rctx.Context) (string, error) { return "", nil },
		processPost:               func(*rctx.Context) (PostResult, error) { return PostResult{}, nil },
		deleteResource:            alwaysFalse,
		deleteCompleted:           alwaysTrue,
		finishRequest:             alwaysTrue,
	}

	if v, ok := c.(serviceAvailabler); ok {
		a.serviceAvailable = v.ServiceAvailable
	}
	if v, ok := c.(resourceExister); ok {
		a.resourceExists = v.ResourceExists
	}
	if v, ok := c.(authRequirer); ok {
		a.authRequired = v.AuthRequired
	}
	if v, ok := c.(authorizer); ok {
		a.isAuthorized = v.IsAuthorized
	}
	if v, ok := c.(forbidder); ok {
		a.forbidden = v.Forbidden
	}
	if v, ok := c.(validContentHeaderer); ok {
		a.validContentHeaders = v.ValidContentHeaders
	}
	if v, ok := c.(knownContentTyper); ok {
		a.knownContentType = v.KnownContentType
	}
	if v, ok := c.(validEntityLengther); ok {
		a.validEntityLength = v.ValidEntityLength
	}
	if v, ok := c.(malformedRequester); ok {
		a.malformedRequest = v.MalformedRequest
	}
	if v, ok := c.(uriTooLonger); ok {
		a.uriTooLong = v.URITooLong
	}
	if v, ok := c.(allowedMethodser); ok {
		a.allowedMethods = v.AllowedMethods
	}
	if v, ok := c.(knownMethodser); ok {
		a.knownMethods = v.KnownMethods
	}
	if v, ok := c.(optionser); ok {
		a.options = v.Options
	}
	if v, ok := c.(contentTypesProvideder); ok {
		a.contentTypesProvided = v.ContentTypesProvided
	}
	if v, ok := c.(contentTypesAccepteder); ok {
		a.contentTypesAccepted = v.ContentTypesAccepted
	}
	if v, ok := c.(languageAvailabler); ok {
		a.languageAvailable = v.LanguageAvailable
	}
	if v, ok := c.(charsetsProvideder); ok {
		a.charsetsProvided = v.CharsetsProvided
	}
	if v, ok := c.(contentEncodingsProvideder); ok {
		a.contentEncodingsProvided = v.ContentEncodingsProvided
	}
	if v, ok := c.(transferEncodingsProvideder); ok {
		a.transferEncodingsProvided = v.TransferEncodingsProvided
	}
	if v, ok := c.(variancer); ok {
		a.variances = v.Variances
	}
	if v, ok := c.(generateETager); ok {
		a.generateETag = v.GenerateETag
	}
	if v, ok := c.(lastModifieder); ok {
		a.lastModified = v.LastModified
	}
	if v, ok := c.(expireser); ok {
		a.expires = v.Expires
	}
	if v, ok := c.(movedPermanentlyer); ok {
		a.movedPermanently = v.MovedPermanently
	}
	if v, ok := c.(movedTemporarilyer); ok {
		a.movedTemporarily = v.MovedTemporarily
	}
	if v, ok := c.(previouslyExister); ok {
		a.previouslyExisted = v.PreviouslyExisted
	}
	if v, ok := c.(allowMissingPoster); ok {
		a.allowMissingPost = v.AllowMissingPost
	}
	if v, ok := c.(isConflicter); ok {
		a.isConflict = v.IsConflict
	}
	if v, ok := c.(multipleChoiceser); ok {
		a.multipleChoices = v.MultipleChoices
	}
	if v, ok := c.(postIsCreater); ok {
		a.postIsCreate = v.PostIsCreate
	}
	if v, ok := c.(createPatcher); ok {
		a.createPath = v.CreatePath
	}
	if v, ok := c.(baseURIer); ok {
		a.baseURI = v.BaseURI
	}
	if v, ok := c.(processPoster); ok {
		a.processPost = v.ProcessPost
	}
	if v, ok := c.(deleteResourcer); ok {
		a.deleteResource = v.DeleteResource
	}
	if v, ok := c.(deleteCompleteder); ok {
		a.deleteCompleted = v.DeleteCompleted
	}
	if v, ok := c.(finishRequester); ok {
		a.finishRequest = v.FinishRequest
	}
	return a
}
