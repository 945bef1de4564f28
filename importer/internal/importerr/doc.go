// Package importerr defines the error taxonomy surfaced by the importer.
//
// Every failure returned by the pipeline is an *Error carrying one of three
// kinds:
//   - KindConfig — required environment (HOST) or credential mode missing/invalid
//   - KindInputValidation — config schema violation or malformed response shape/value
//   - KindAPIRequest — transport failure or non-success application status
//
// Errors are never downgraded or partially recovered; callers decide exit
// behavior. Use Is(err, kind) or errors.As to branch on the kind.
package importerr
