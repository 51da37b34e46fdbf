// Package chart renders the ranked qualifying gaps as a dark-themed bar chart
// and hands the PNG to the desktop viewer.
//
// The value axis runs from zero at the bottom edge to 1.15 times the most
// negative average at the top, so the best tracks draw as the tallest bars.
// Each bar carries its value rounded to three decimals; race labels are
// rotated 45 degrees.
package chart
