// admin.go - Session-protected admin panel
//
// Login stores {user_id, email} in a signed cookie session. Every other page
// goes through middleware.AdminSession, which checks that the user still exists.

package admin

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"hotel-bookings-backend/middleware"
	"hotel-bookings-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

var errNotDeletable = errors.New("model cannot be deleted")

// SessionMaxAge is the lifetime of an admin session in seconds.
const SessionMaxAge = 3600

// NewSessionStore returns the cookie store for admin sessions, signed with key.
func NewSessionStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/admin",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

type Panel struct {
	users  *services.UsersService
	store  sessions.Store
	views  []View
	byName map[string]View
	tmpl   *template.Template
}

func New(users *services.UsersService, store sessions.Store, views []View) *Panel {
	p := &Panel{
		users:  users,
		store:  store,
		views:  views,
		byName: make(map[string]View, len(views)),
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	for _, v := range views {
		p.byName[v.Name()] = v
	}
	return p
}

// Register mounts the panel under /admin.
func (p *Panel) Register(r gin.IRouter) {
	r.GET("/admin/login", p.loginPage)
	r.POST("/admin/login", p.login)
	r.GET("/admin/logout", p.logout)

	g := r.Group("/admin", middleware.AdminSession(p.store, p.users))
	g.GET("/", p.index)
	g.GET("/:model/list", p.list)
	g.GET("/:model/details/:id", p.details)
	g.POST("/:model/delete/:id", p.delete)
}

func (p *Panel) html(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Views"] = p.views
	if admin, ok := middleware.CurrentAdmin(c); ok {
		data["Admin"] = admin.Email
	}
	c.Render(status, render.HTML{Template: p.tmpl, Name: name, Data: data})
}

func (p *Panel) loginPage(c *gin.Context) {
	p.html(c, http.StatusOK, "login.html", nil)
}

func (p *Panel) login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	user, err := p.users.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("[ADMIN] login: %v", err)
			status = http.StatusInternalServerError
		}
		p.html(c, status, "login.html", gin.H{"Error": "Invalid credentials", "Username": email})
		return
	}
	if err := middleware.SaveAdminSession(c, p.store, user); err != nil {
		log.Printf("[ADMIN] save session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/admin/")
}

func (p *Panel) logout(c *gin.Context) {
	middleware.ClearAdminSession(c, p.store)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (p *Panel) index(c *gin.Context) {
	p.html(c, http.StatusOK, "index.html", nil)
}

func (p *Panel) view(c *gin.Context) (View, bool) {
	v, ok := p.byName[c.Param("model")]
	if !ok {
		c.String(http.StatusNotFound, "Not found")
		return nil, false
	}
	return v, true
}

func (p *Panel) list(c *gin.Context) {
	v, ok := p.view(c)
	if !ok {
		return
	}
	rows, err := v.List(c.Request.Context())
	if err != nil {
		log.Printf("[ADMIN] list %s: %v", v.Name(), err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	p.html(c, http.StatusOK, "list.html", gin.H{"View": v, "Rows": rows})
}

func (p *Panel) details(c *gin.Context) {
	v, ok := p.view(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	cells, err := v.Details(c.Request.Context(), uint(id))
	if err != nil {
		log.Printf("[ADMIN] details %s/%d: %v", v.Name(), id, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if cells == nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	fields := make([][2]string, len(cells))
	for i, col := range v.Columns() {
		fields[i] = [2]string{col, cells[i]}
	}
	p.html(c, http.StatusOK, "details.html", gin.H{"View": v, "ID": id, "Fields": fields})
}

func (p *Panel) delete(c *gin.Context) {
	v, ok := p.view(c)
	if !ok {
		return
	}
	if !v.Deletable() {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	err = v.Delete(c.Request.Context(), uint(id))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrHotelNotFound),
		errors.Is(err, services.ErrRoomNotFound):
		c.String(http.StatusNotFound, "Not found")
		return
	default:
		log.Printf("[ADMIN] delete %s/%d: %v", v.Name(), id, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/admin/"+v.Name()+"/list")
}
