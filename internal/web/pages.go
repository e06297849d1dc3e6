// Package web は画面（HTML フォーム・ダッシュボード）と一般ユーザー登録のハンドラーを提供します。
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/auth"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StylesPath はスタイルシートの公開パスです。
const StylesPath = "/styles.css"

// Templates は埋め込みテンプレートを読み込みます。
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}

// Static はスタイルシートなどの静的ファイルを返します。
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed のパスはビルド時に確定しているので到達しない
		panic(err)
	}
	return http.FS(sub)
}

// Landing は GET / のハンドラーです。
func Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.tmpl", gin.H{"Title": "Welcome"})
}

// NormalForm は GET /normal のハンドラーです。
func NormalForm(c *gin.Context) {
	c.HTML(http.StatusOK, "normal.tmpl", gin.H{"Title": "Normal User Registration"})
}

// CoreChoice は GET /core のハンドラーです。
func CoreChoice(c *gin.Context) {
	c.HTML(http.StatusOK, "core.tmpl", gin.H{"Title": "Core Member"})
}

// SignupForm は GET /core/signup のハンドラーです。
func SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "credentials.tmpl", gin.H{
		"Title":  "Core Member Sign Up",
		"Action": "/core/signup",
		"Submit": "Sign Up",
	})
}

// LoginForm は GET /core/login のハンドラーです。直近のログイン名を入力済みにします。
func LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "credentials.tmpl", gin.H{
		"Title":    "Core Member Login",
		"Action":   "/core/login",
		"Submit":   "Login",
		"Username": auth.LastUsername(c),
	})
}

// Dashboard は GET /core/dashboard のハンドラーです。
// auth.RequireToken と auth.RequireRole を通過したリクエストだけが到達します。
func Dashboard(c *gin.Context) {
	claims := auth.ClaimsFromContext(c.Request.Context())
	username := ""
	if claims != nil {
		username = claims.Username
	}
	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"Title":    "Core Member Dashboard",
		"Username": username,
	})
}
