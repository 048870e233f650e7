// Package testutil provides common test utilities and helpers for the stagefmt test suite.
//
// The package includes three main components:
//
// FakeRunner: a scripted executor.Runner that records every call
//   - Register responses with On(command, argPrefix...)
//   - Configure each response with the ResultBuilder it returns
//   - Inspect Calls() or CallsTo() afterwards
//
// Repo helpers: throwaway git repositories for end-to-end tests
//   - NewRepo() runs git init in a temp dir with a fixed identity
//   - WriteFile(), Stage() and Git() drive the repository
//   - IndexEntry() reads back mode and object id for a path
//
// Fake formatter: a shell script standing in for clang-format
//   - FakeClangFormat() writes one into a directory with a chosen version
//   - It moves a trailing "{" after ")" onto its own line
//   - Input containing FORMAT_ERROR makes it fail like -Werror does
//
// Example usage:
//
//	runner := testutil.NewFakeRunner()
//	runner.On("git", "rev-parse", "--show-toplevel").Success("/work/repo\n")
//
//	repo := testutil.NewRepo(t)
//	repo.WriteFile("src/main.c", "int main() {\n}\n")
//	repo.Stage("src/main.c")
//
package testutil
