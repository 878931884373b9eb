package entities

import "errors"

var (
	// ErrInvalidPath is returned when a canonical key cannot be split back into a coordinate.
	ErrInvalidPath = errors.New("invalid coordinate path")

	// ErrMissingRevision marks a coordinate that cannot be fetched because it has no revision.
	ErrMissingRevision = errors.New("needs version information")

	// ErrUnrecognizedContent is reported when no import classifier understands the input.
	ErrUnrecognizedContent = errors.New("content was not recognized as a component, list, or URL")

	// ErrInvalidListFile is reported for a bundle member or file that is not a component list.
	ErrInvalidListFile = errors.New("invalid component list file")

	// ErrSharedListLoad collapses every share token decoding failure into one condition.
	ErrSharedListLoad = errors.New("could not load shared list")

	// ErrMalformedBundleURL is returned when a bundle URL carries no bundle identifier.
	ErrMalformedBundleURL = errors.New("bundle url is malformed")

	// ErrEmptyBundle is returned when a remote bundle could not be loaded or has no files.
	ErrEmptyBundle = errors.New("bundle could not be loaded or was empty")

	// ErrBundlePermission is returned when the bundle store rejects a creation for lack of permission.
	ErrBundlePermission = errors.New("could not create bundle, likely permission was not granted")
)
