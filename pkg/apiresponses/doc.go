// Package apiresponses provides shared JSON response helpers so every API
// endpoint formats errors the same way.
package apiresponses
