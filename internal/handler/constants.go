// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public blog pages,
// authentication, and the admin console.
package handler

// Redirect targets used after form submissions.
const (
	redirectHome            = "/"
	redirectLogin           = "/login"
	redirectAdmin           = "/admin"
	redirectAdminArticles   = "/admin/articles"
	redirectAdminCategories = "/admin/categories"
	redirectAdminComments   = "/admin/comments"
	redirectAdminSite       = "/admin/site"
)

// Admin list page size.
const adminPerPage = 20
