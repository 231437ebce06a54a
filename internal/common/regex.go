package common

import "regexp"

// MatchKeywordRegex matches a user-authored rule pattern against a
// description. Rule matching is case-insensitive throughout, so the pattern
// is compiled with the case-insensitive flag. Returns an error if the
// pattern is invalid.
func MatchKeywordRegex(pattern, text string) (bool, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}
