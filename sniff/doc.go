// Package sniff checks text files against a character-set and line-ending
// policy.
//
// A Policy is built once per run and shared read-only. Validate decodes the
// bytes with the policy's charset and runs, in order and stopping at the
// first failure:
//
//   - the code range check (CheckCodes)
//   - the allow-list / deny-list check (CheckMembership)
//   - the end-of-line check (CheckEOL)
//   - strict UTF-8 validation of the raw bytes (IsValidUTF8), when enabled
//
// A policy violation is reported as false, never as an error. Errors are
// reserved for input that cannot be checked, such as an unknown charset.
package sniff
