// Package files discovers statement exports in the inbox directory and
// archives them once imported.
package files
