// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Camelize converts a snake_case path such as "admin/user_posts" into a Ruby
// constant path such as "Admin::UserPosts".
func Camelize(s string) string {
	// Caser instances are stateful, one per call.
	caser := cases.Title(language.Und)

	var sb strings.Builder
	for i, part := range strings.Split(s, "/") {
		if i > 0 {
			sb.WriteString("::")
		}
		for _, segment := range strings.Split(part, "_") {
			sb.WriteString(caser.String(segment))
		}
	}
	return sb.String()
}

// ControllerClassName returns the class name a raw controller name resolves to.
// "home" becomes "HomeController" and "admin/users" becomes "Admin::UsersController".
func ControllerClassName(controllerName string) string {
	return Camelize(controllerName + "_controller")
}
