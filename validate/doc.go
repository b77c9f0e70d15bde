// Package validate checks JSON Well Log Format documents for structural and
// semantic conformance.
//
// Validation is a single streaming pass that never builds a log model. The
// result is an ordered list of messages, each with a severity and, where the
// finding is tied to a place in the document, a source location:
//
//	msgs, err := validate.New().ValidateFile("logs.json")
//	if err != nil {
//		return err // the file could not be read
//	}
//	for _, m := range msgs {
//		fmt.Println(m)
//	}
//
// Format violations are reported as messages, never as errors. Only failures
// to read the input are returned as errors.
package validate
