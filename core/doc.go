// Package core holds identifier types shared by every other package.
package core
