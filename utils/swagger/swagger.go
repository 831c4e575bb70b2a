package swagger

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	AuthURL       string
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui.css" />
  <style>
    body { margin: 0; background: #fafafa; }
    .login-bar { display: flex; gap: 8px; align-items: center; padding: 12px 20px; background: #1b3a57; color: #fff;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; font-size: 13px; }
    .login-bar input { padding: 6px 10px; border-radius: 4px; border: 1px solid #9fb3c8; width: 220px; }
    .login-bar button { padding: 6px 14px; border-radius: 4px; border: 0; background: #4990e2; color: #fff; cursor: pointer; }
    .login-bar button:disabled { opacity: 0.6; cursor: not-allowed; }
    #login-status { margin-left: 8px; }
  </style>
</head>
<body>
  <div class="login-bar">
    <strong>{{.Title}}</strong>
    <input id="swagger-email" type="email" placeholder="Email" />
    <input id="swagger-password" type="password" placeholder="Password" />
    <button id="swagger-login">Login</button>
    <span id="login-status"></span>
  </div>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: '{{.SwaggerDocURL}}',
        dom_id: '#swagger-ui',
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
      });
    };

    document.getElementById("swagger-login").onclick = async function () {
      const email = document.getElementById("swagger-email").value;
      const password = document.getElementById("swagger-password").value;
      const status = document.getElementById("login-status");
      if (!email || !password) {
        status.textContent = "Email and password are required.";
        return;
      }

      this.disabled = true;
      try {
        const response = await fetch('{{.AuthURL}}', {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ email: email, password: password }),
        });
        const body = await response.json();
        if (response.ok && body.data && body.data.access_token) {
          window.ui.preauthorizeApiKey("BearerAuth", "Bearer " + body.data.access_token);
          status.textContent = "Authorized as " + email;
          document.getElementById("swagger-password").value = "";
        } else {
          status.textContent = "Login failed: " + (body.message || "unknown error");
        }
      } catch (err) {
        status.textContent = "Login error: " + err.message;
      } finally {
        this.disabled = false;
      }
    };
  </script>
</body>
</html>`

var swaggerTemplate = template.Must(template.New("swagger").Parse(swaggerHTML))

// ServeSwaggerUI renders the Swagger UI page with an inline login bar
func ServeSwaggerUI(config SwaggerConfig) gin.HandlerFunc {
	if config.Title == "" {
		config.Title = "API Documentation"
	}
	if config.SwaggerDocURL == "" {
		config.SwaggerDocURL = "/swagger/doc.json"
	}
	if config.AuthURL == "" {
		config.AuthURL = "/api/v1/auth/login"
	}

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := swaggerTemplate.Execute(c.Writer, config); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render Swagger UI"})
		}
	}
}

// ServeDoc writes the OpenAPI document registered with swag
func ServeDoc() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "API documentation is not registered"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
